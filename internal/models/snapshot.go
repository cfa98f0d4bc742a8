package models

// Snapshot is a read-only copy of all three collections, used for backups
// and for migrating a local store into a real database.
type Snapshot struct {
	Users     []User     `json:"users"`
	Projects  []Project  `json:"projects"`
	Resources []Resource `json:"resources"`
}
