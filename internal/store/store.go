// Package store defines the data-access contract of the civicbridge record
// store. It is the sole gateway between the portal surfaces and persisted
// state; no other component touches storage directly.
package store

import (
	"context"

	"github.com/rsharma2005/civicbridge/internal/models"
)

// Store exposes the portal's persistence operations over the three record
// collections (users, projects, resources) and the single session pointer.
//
// Error contract (matched with errors.Is against internal/common):
//   - RegisterUser: ErrDuplicateIdentity if the email is already on file.
//   - LoginUser: ErrInvalidCredentials if no user matches.
//   - CreateProject: ErrNotAuthenticated without an active session.
//   - CreateResource: ErrNotAuthenticated only when the store was configured
//     to require a session for resource creation.
//   - ProjectByID / ResourceByID: ErrNotFound for unknown ids.
//
// CurrentUser reports an absent session as (nil, nil); absence is a normal
// result, not a failure. Failed mutations never leave partial state.
type Store interface {
	// RegisterUser creates a new account, activates its session, and returns
	// the stored record.
	RegisterUser(ctx context.Context, name, email, department, password string) (*models.User, error)

	// LoginUser verifies credentials and activates the matching session.
	LoginUser(ctx context.Context, email, password string) (*models.SessionUser, error)

	// CurrentUser returns the active session pointer, or nil if none is set.
	CurrentUser(ctx context.Context) (*models.SessionUser, error)

	// LogoutUser clears the session pointer. Idempotent.
	LogoutUser(ctx context.Context) error

	// Projects returns all projects in insertion order.
	Projects(ctx context.Context) ([]models.Project, error)

	// ProjectByID returns a single project.
	ProjectByID(ctx context.Context, id string) (*models.Project, error)

	// CreateProject appends a project, stamping id, createdBy (from the
	// active session) and createdAt.
	CreateProject(ctx context.Context, draft models.ProjectDraft) (*models.Project, error)

	// Resources returns all resources in insertion order.
	Resources(ctx context.Context) ([]models.Resource, error)

	// ResourceByID returns a single resource.
	ResourceByID(ctx context.Context, id string) (*models.Resource, error)

	// CreateResource appends a resource, stamping id and createdAt.
	CreateResource(ctx context.Context, draft models.ResourceDraft) (*models.Resource, error)

	// Export returns a snapshot of all three collections for backup or
	// migration.
	Export(ctx context.Context) (*models.Snapshot, error)
}

// SnapshotImporter is implemented by stores that can ingest a snapshot
// produced by Export, e.g. when migrating local data into PostgreSQL.
type SnapshotImporter interface {
	ImportSnapshot(ctx context.Context, snap *models.Snapshot) error
}
