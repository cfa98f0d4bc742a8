package models

import "time"

// Resource is a shared departmental asset (dataset, document, template...).
// FileURL is an opaque handle to an attached blob and may be empty.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Department  string    `json:"department"`
	Type        string    `json:"type"`
	Author      string    `json:"author"`
	FileURL     string    `json:"fileUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ResourceDraft carries the caller-supplied fields of a new resource.
type ResourceDraft struct {
	Title       string
	Description string
	Department  string
	Type        string
	Author      string
	FileURL     string
}
