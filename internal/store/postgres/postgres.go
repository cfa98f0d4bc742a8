// Package postgres implements the record store over PostgreSQL with
// per-record tables, the migration target the local KV store exports into.
// Unlike the KV-backed store it never rewrites a whole collection: each
// create inserts a single row, so concurrent writers do not lose each
// other's inserts.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/rsharma2005/civicbridge/internal/auth"
	"github.com/rsharma2005/civicbridge/internal/common"
	"github.com/rsharma2005/civicbridge/internal/dbx"
	"github.com/rsharma2005/civicbridge/internal/logging"
	"github.com/rsharma2005/civicbridge/internal/models"
	"github.com/rsharma2005/civicbridge/internal/store/postgres/migrations"
)

// Test seams.
var (
	timeNow = func() time.Time { return time.Now().UTC() }
	newID   = uuid.NewString
)

// Config carries store policy knobs, mirroring the local store.
type Config struct {
	RequireAuthForResourceCreation bool
}

// Store is the PostgreSQL-backed record store.
type Store struct {
	db     *sql.DB
	cfg    Config
	logger logging.Logger
}

// New wraps an existing database handle. Migrations are the caller's
// responsibility; use Open for the common path.
func New(db *sql.DB, cfg Config, logger logging.Logger) *Store {
	return &Store{db: db, cfg: cfg, logger: logger.With("component", "store", "backend", "postgres")}
}

// Open connects using the pgx stdlib driver, runs embedded migrations, and
// returns a ready Store.
func Open(ctx context.Context, dsn string, cfg Config, logger logging.Logger) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	s := New(db, cfg, logger)
	if err := s.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return s, nil
}

// RunMigrations applies the embedded goose migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return err
	}
	s.logger.Info(ctx, "migrations applied")
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) setSession(ctx context.Context, db dbx.DBTX, u models.SessionUser) error {
	query :=
		`INSERT INTO portal_session (singleton, user_id, name, email, department)
		 VALUES (TRUE, $1, $2, $3, $4)
		 ON CONFLICT (singleton) DO UPDATE
		 SET user_id = excluded.user_id, name = excluded.name,
		     email = excluded.email, department = excluded.department
		 `
	if _, err := db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.Department); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Store) currentSession(ctx context.Context, db dbx.DBTX) (*models.SessionUser, error) {
	query := `SELECT user_id, name, email, department FROM portal_session`

	u := models.SessionUser{}
	err := db.QueryRowContext(ctx, query).Scan(&u.ID, &u.Name, &u.Email, &u.Department)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

// RegisterUser inserts a new account and activates its session.
func (s *Store) RegisterUser(ctx context.Context, name, email, department, password string) (*models.User, error) {
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

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var exists bool
		query := `SELECT EXISTS (SELECT 1 FROM portal_users WHERE email = $1)`
		if err := tx.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if exists {
			return common.ErrDuplicateIdentity
		}

		query =
			`INSERT INTO portal_users (id, name, email, department, password_hash)
			 VALUES ($1, $2, $3, $4, $5)
			 `
		if _, err := tx.ExecContext(ctx, query,
			user.ID, user.Name, user.Email, user.Department, user.PasswordHash); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		return s.setSession(ctx, tx, user.Session())
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// LoginUser verifies credentials and activates the matching session.
func (s *Store) LoginUser(ctx context.Context, email, password string) (*models.SessionUser, error) {
	query := `SELECT id, name, email, department, password_hash FROM portal_users WHERE email = $1`

	u := models.User{}
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Department, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if auth.VerifyPassword(u.PasswordHash, password) != nil {
		return nil, common.ErrInvalidCredentials
	}

	session := u.Session()
	if err := s.setSession(ctx, s.db, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CurrentUser returns the session pointer, or nil if no session is active.
func (s *Store) CurrentUser(ctx context.Context) (*models.SessionUser, error) {
	return s.currentSession(ctx, s.db)
}

// LogoutUser clears the session pointer. Safe to call repeatedly.
func (s *Store) LogoutUser(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM portal_session`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Projects returns all projects in insertion order.
func (s *Store) Projects(ctx context.Context) ([]models.Project, error) {
	query :=
		`SELECT id, title, description, status, location, deadline, departments, created_by, created_at
		 FROM portal_projects ORDER BY seq
		 `
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := models.Project{}
	var departments []byte
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.Location,
		&p.Deadline, &departments, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(departments, &p.Departments); err != nil {
		return nil, fmt.Errorf("decode departments: %w", err)
	}
	return &p, nil
}

// ProjectByID returns a single project or common.ErrNotFound.
func (s *Store) ProjectByID(ctx context.Context, id string) (*models.Project, error) {
	query :=
		`SELECT id, title, description, status, location, deadline, departments, created_by, created_at
		 FROM portal_projects WHERE id = $1
		 `
	p, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func insertProject(ctx context.Context, db dbx.DBTX, p *models.Project) error {
	departments, err := json.Marshal(p.Departments)
	if err != nil {
		return fmt.Errorf("encode departments: %w", err)
	}
	query :=
		`INSERT INTO portal_projects (id, title, description, status, location, deadline, departments, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `
	if _, err := db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.Status, p.Location,
		p.Deadline, departments, p.CreatedBy, p.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// CreateProject inserts a project stamped with a fresh id, the session
// user's email, and the current time. Requires an active session.
func (s *Store) CreateProject(ctx context.Context, draft models.ProjectDraft) (*models.Project, error) {
	var project *models.Project

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		session, err := s.currentSession(ctx, tx)
		if err != nil {
			return err
		}
		if session == nil {
			return common.ErrNotAuthenticated
		}

		project = &models.Project{
			ID:          newID(),
			Title:       draft.Title,
			Description: draft.Description,
			Status:      draft.Status,
			Location:    draft.Location,
			Deadline:    draft.Deadline,
			Departments: draft.Departments,
			CreatedBy:   session.Email,
			CreatedAt:   timeNow(),
		}
		return insertProject(ctx, tx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Resources returns all resources in insertion order.
func (s *Store) Resources(ctx context.Context) ([]models.Resource, error) {
	query :=
		`SELECT id, title, description, department, type, author, file_url, created_at
		 FROM portal_resources ORDER BY seq
		 `
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Resource{}
	for rows.Next() {
		r := models.Resource{}
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Department,
			&r.Type, &r.Author, &r.FileURL, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// ResourceByID returns a single resource or common.ErrNotFound.
func (s *Store) ResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	query :=
		`SELECT id, title, description, department, type, author, file_url, created_at
		 FROM portal_resources WHERE id = $1
		 `
	r := models.Resource{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Title, &r.Description,
		&r.Department, &r.Type, &r.Author, &r.FileURL, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &r, nil
}

func insertResource(ctx context.Context, db dbx.DBTX, r *models.Resource) error {
	query :=
		`INSERT INTO portal_resources (id, title, description, department, type, author, file_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `
	if _, err := db.ExecContext(ctx, query,
		r.ID, r.Title, r.Description, r.Department, r.Type, r.Author, r.FileURL, r.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// CreateResource inserts a resource stamped with a fresh id and the current
// time. A session is required only when the store was configured that way.
func (s *Store) CreateResource(ctx context.Context, draft models.ResourceDraft) (*models.Resource, error) {
	if s.cfg.RequireAuthForResourceCreation {
		session, err := s.currentSession(ctx, s.db)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, common.ErrNotAuthenticated
		}
	}

	resource := &models.Resource{
		ID:          newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Department:  draft.Department,
		Type:        draft.Type,
		Author:      draft.Author,
		FileURL:     draft.FileURL,
		CreatedAt:   timeNow(),
	}
	if err := insertResource(ctx, s.db, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// Export returns a snapshot of all three collections.
func (s *Store) Export(ctx context.Context) (*models.Snapshot, error) {
	users := []models.User{}
	query := `SELECT id, name, email, department, password_hash FROM portal_users ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		u := models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Department, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, err
	}
	resources, err := s.Resources(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{Users: users, Projects: projects, Resources: resources}, nil
}

// ImportSnapshot ingests a snapshot produced by another store in a single
// transaction. Existing rows with matching ids are left untouched so the
// import can be re-run safely.
func (s *Store) ImportSnapshot(ctx context.Context, snap *models.Snapshot) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, u := range snap.Users {
			query :=
				`INSERT INTO portal_users (id, name, email, department, password_hash)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (id) DO NOTHING
				 `
			if _, err := tx.ExecContext(ctx, query,
				u.ID, u.Name, u.Email, u.Department, u.PasswordHash); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		for _, p := range snap.Projects {
			departments, err := json.Marshal(p.Departments)
			if err != nil {
				return fmt.Errorf("encode departments: %w", err)
			}
			query :=
				`INSERT INTO portal_projects (id, title, description, status, location, deadline, departments, created_by, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				 ON CONFLICT (id) DO NOTHING
				 `
			if _, err := tx.ExecContext(ctx, query,
				p.ID, p.Title, p.Description, p.Status, p.Location,
				p.Deadline, departments, p.CreatedBy, p.CreatedAt); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		for _, r := range snap.Resources {
			query :=
				`INSERT INTO portal_resources (id, title, description, department, type, author, file_url, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				 ON CONFLICT (id) DO NOTHING
				 `
			if _, err := tx.ExecContext(ctx, query,
				r.ID, r.Title, r.Description, r.Department, r.Type, r.Author, r.FileURL, r.CreatedAt); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}
