package backup

import "time"

// FormatVersion is the archive format version. Increment on breaking changes.
const FormatVersion = "1.0"

// Archive paths.
const (
	manifestFile = "manifest.json"
	usersFile    = "entities/users.jsonl"
	booksFile    = "entities/books.jsonl"
	recipesFile  = "entities/recipes.jsonl"
	versionsFile = "entities/versions.jsonl"
)

// archiveSuffix marks backup files in the backup directory.
const archiveSuffix = ".recipehub.zip"

// Manifest describes archive contents.
type Manifest struct {
	Version       string       `json:"version"`
	CreatedAt     time.Time    `json:"createdAt"`
	ServerVersion string       `json:"serverVersion"`
	Counts        EntityCounts `json:"counts"`
}

// EntityCounts tracks record counts for validation and reporting.
type EntityCounts struct {
	Users    int `json:"users"`
	Books    int `json:"books"`
	Recipes  int `json:"recipes"`
	Versions int `json:"versions"`
}
