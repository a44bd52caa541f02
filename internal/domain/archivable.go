package domain

import "time"

// Archivable provides the timestamps and soft-delete state shared by books
// and recipes. Archived entities are hidden from listings but never purged.
type Archivable struct {
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	Archived   bool       `json:"archived"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (a *Archivable) InitTimestamps(now time.Time) {
	a.CreatedAt = now
	a.UpdatedAt = now
}

// Touch sets UpdatedAt. Call it whenever the entity changes.
func (a *Archivable) Touch(now time.Time) {
	a.UpdatedAt = now
}

// IsArchived reports whether the entity has been archived.
func (a *Archivable) IsArchived() bool {
	return a.Archived
}

// MarkArchived archives the entity and touches it.
func (a *Archivable) MarkArchived(now time.Time) {
	a.Archived = true
	a.ArchivedAt = &now
	a.UpdatedAt = now
}
