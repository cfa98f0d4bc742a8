package models

import (
	"fmt"
	"time"
)

// ProjectStatus classifies a project's lifecycle stage.
type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "planning"
	StatusInProgress ProjectStatus = "in-progress"
	StatusOnHold     ProjectStatus = "on-hold"
	StatusCompleted  ProjectStatus = "completed"
	StatusDelayed    ProjectStatus = "delayed"
)

// ParseProjectStatus validates s against the known statuses.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch st := ProjectStatus(s); st {
	case StatusPlanning, StatusInProgress, StatusOnHold, StatusCompleted, StatusDelayed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown project status %q", s)
	}
}

// Project is an inter-departmental development project. CreatedBy and
// CreatedAt are store-assigned at creation time, never caller-supplied.
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	Location    string        `json:"location"`
	Deadline    time.Time     `json:"deadline"`
	Departments []string      `json:"departments"`
	CreatedBy   string        `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ProjectDraft carries the caller-supplied fields of a new project.
type ProjectDraft struct {
	Title       string
	Description string
	Status      ProjectStatus
	Location    string
	Deadline    time.Time
	Departments []string
}
