package domain

import "time"

// UserProfile records a user seen through a verified token. Identity is
// owned by the external provider; this is a local copy for display.
type UserProfile struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
}
