// Package local implements the record store over the synchronous key-value
// primitive. Collections are persisted as whole JSON arrays under fixed
// keys and rewritten wholesale on every mutation; a mutex keeps the
// read-modify-write cycles single-writer within the process.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rsharma2005/civicbridge/internal/auth"
	"github.com/rsharma2005/civicbridge/internal/common"
	"github.com/rsharma2005/civicbridge/internal/kv"
	"github.com/rsharma2005/civicbridge/internal/logging"
	"github.com/rsharma2005/civicbridge/internal/models"
)

// Storage keys. Presence of a key, not its content, gates seeding.
const (
	UsersKey     = "portal_users"
	ProjectsKey  = "portal_projects"
	ResourcesKey = "portal_resources"
	SessionKey   = "portal_user"
)

// Bootstrap administrator seeded into an empty store.
const (
	SeedAdminName       = "System Administrator"
	SeedAdminEmail      = "sysadmin@city.gov.in"
	SeedAdminDepartment = "Municipal Administration"
	SeedAdminPassword   = "password123"
)

// Test seams.
var (
	timeNow = time.Now
	newID   = uuid.NewString
)

// Config carries store policy knobs.
type Config struct {
	// RequireAuthForResourceCreation makes CreateResource demand an active
	// session, symmetric with CreateProject. Off by default.
	RequireAuthForResourceCreation bool
}

// Store is the KV-backed record store. Construct it once with New and pass
// it by reference to all consumers.
type Store struct {
	kv     kv.KV
	cfg    Config
	logger logging.Logger

	mu sync.Mutex
}

// New builds a Store over the given KV and seeds absent collections: the
// users collection receives exactly one bootstrap administrator, projects
// and resources start empty. Seeding is idempotent.
func New(store kv.KV, cfg Config, logger logging.Logger) (*Store, error) {
	s := &Store{kv: store, cfg: cfg, logger: logger.With("component", "store")}
	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}
	return s, nil
}

func (s *Store) seed() error {
	if _, ok, err := s.kv.Get(UsersKey); err != nil {
		return err
	} else if !ok {
		hash, err := auth.HashPassword(SeedAdminPassword)
		if err != nil {
			return err
		}
		admin := models.User{
			ID:           newID(),
			Name:         SeedAdminName,
			Email:        SeedAdminEmail,
			Department:   SeedAdminDepartment,
			PasswordHash: hash,
		}
		if err := s.writeUsers([]models.User{admin}); err != nil {
			return err
		}
		s.logger.Info(context.Background(), "seeded bootstrap administrator", "email", admin.Email)
	}

	for _, key := range []string{ProjectsKey, ResourcesKey} {
		if _, ok, err := s.kv.Get(key); err != nil {
			return err
		} else if !ok {
			if err := s.kv.Set(key, "[]"); err != nil {
				return err
			}
		}
	}
	return nil
}

func readCollection[T any](store kv.KV, key string) ([]T, error) {
	raw, ok, err := store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func writeCollection[T any](store kv.KV, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) readUsers() ([]models.User, error) {
	return readCollection[models.User](s.kv, UsersKey)
}

func (s *Store) writeUsers(users []models.User) error {
	return writeCollection(s.kv, UsersKey, users)
}

func (s *Store) setSession(u models.SessionUser) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(SessionKey, string(data)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Store) currentSession() (*models.SessionUser, error) {
	raw, ok, err := s.kv.Get(SessionKey)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var u models.SessionUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &u, nil
}

// RegisterUser appends a new account and activates its session. The email
// must not already be on file; the check is an exact-string match.
func (s *Store) RegisterUser(ctx context.Context, name, email, department, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Email == email {
			return nil, common.ErrDuplicateIdentity
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		Department:   department,
		PasswordHash: hash,
	}

	users = append(users, user)
	if err := s.writeUsers(users); err != nil {
		return nil, err
	}
	if err := s.setSession(user.Session()); err != nil {
		return nil, err
	}

	return &user, nil
}

// LoginUser scans users for a credential match and activates the session.
func (s *Store) LoginUser(ctx context.Context, email, password string) (*models.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if auth.VerifyPassword(u.PasswordHash, password) != nil {
			break
		}
		session := u.Session()
		if err := s.setSession(session); err != nil {
			return nil, err
		}
		return &session, nil
	}

	return nil, common.ErrInvalidCredentials
}

// CurrentUser returns the session pointer, or nil if no session is active.
func (s *Store) CurrentUser(ctx context.Context) (*models.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSession()
}

// LogoutUser clears the session pointer. Safe to call repeatedly.
func (s *Store) LogoutUser(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Projects returns the full collection in insertion order.
func (s *Store) Projects(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.Project](s.kv, ProjectsKey)
}

// ProjectByID returns a single project or common.ErrNotFound.
func (s *Store) ProjectByID(ctx context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := readCollection[models.Project](s.kv, ProjectsKey)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

// CreateProject appends a project stamped with a fresh id, the session
// user's email, and the current time. Requires an active session.
func (s *Store) CreateProject(ctx context.Context, draft models.ProjectDraft) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.currentSession()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, common.ErrNotAuthenticated
	}

	projects, err := readCollection[models.Project](s.kv, ProjectsKey)
	if err != nil {
		return nil, err
	}

	project := models.Project{
		ID:          newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Location:    draft.Location,
		Deadline:    draft.Deadline,
		Departments: draft.Departments,
		CreatedBy:   session.Email,
		CreatedAt:   timeNow().UTC(),
	}

	projects = append(projects, project)
	if err := writeCollection(s.kv, ProjectsKey, projects); err != nil {
		return nil, err
	}
	return &project, nil
}

// Resources returns the full collection in insertion order.
func (s *Store) Resources(ctx context.Context) ([]models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.Resource](s.kv, ResourcesKey)
}

// ResourceByID returns a single resource or common.ErrNotFound.
func (s *Store) ResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resources, err := readCollection[models.Resource](s.kv, ResourcesKey)
	if err != nil {
		return nil, err
	}
	for _, r := range resources {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, common.ErrNotFound
}

// CreateResource appends a resource stamped with a fresh id and the current
// time. A session is required only when the store was configured that way.
func (s *Store) CreateResource(ctx context.Context, draft models.ResourceDraft) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.RequireAuthForResourceCreation {
		session, err := s.currentSession()
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, common.ErrNotAuthenticated
		}
	}

	resources, err := readCollection[models.Resource](s.kv, ResourcesKey)
	if err != nil {
		return nil, err
	}

	resource := models.Resource{
		ID:          newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Department:  draft.Department,
		Type:        draft.Type,
		Author:      draft.Author,
		FileURL:     draft.FileURL,
		CreatedAt:   timeNow().UTC(),
	}

	resources = append(resources, resource)
	if err := writeCollection(s.kv, ResourcesKey, resources); err != nil {
		return nil, err
	}
	return &resource, nil
}

// Export returns a snapshot of all three collections.
func (s *Store) Export(ctx context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	projects, err := readCollection[models.Project](s.kv, ProjectsKey)
	if err != nil {
		return nil, err
	}
	resources, err := readCollection[models.Resource](s.kv, ResourcesKey)
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{Users: users, Projects: projects, Resources: resources}, nil
}

// ImportSnapshot replaces all three collections with the snapshot's
// contents. The session pointer is left untouched.
func (s *Store) ImportSnapshot(ctx context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeUsers(snap.Users); err != nil {
		return err
	}
	if err := writeCollection(s.kv, ProjectsKey, snap.Projects); err != nil {
		return err
	}
	return writeCollection(s.kv, ResourcesKey, snap.Resources)
}
