package local

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma2005/civicbridge/internal/common"
	"github.com/rsharma2005/civicbridge/internal/kv"
	"github.com/rsharma2005/civicbridge/internal/logging"
	"github.com/rsharma2005/civicbridge/internal/models"
	"github.com/rsharma2005/civicbridge/internal/store"
)

var _ store.Store = (*Store)(nil)
var _ store.SnapshotImporter = (*Store)(nil)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestStore(t *testing.T, cfg Config) (*Store, *kv.MemKV) {
	t.Helper()
	mem := kv.NewMemKV()
	s, err := New(mem, cfg, discardLogger())
	require.NoError(t, err)
	return s, mem
}

func usersIn(t *testing.T, mem *kv.MemKV) []models.User {
	t.Helper()
	raw, ok, err := mem.Get(UsersKey)
	require.NoError(t, err)
	require.True(t, ok)
	var users []models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &users))
	return users
}

func sampleDraft() models.ProjectDraft {
	return models.ProjectDraft{
		Title:       "Metro Line Extension Phase II",
		Description: "Extending the metro network to the southern suburbs.",
		Status:      models.StatusInProgress,
		Location:    "Southern District",
		Deadline:    time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC),
		Departments: []string{"transportation", "urban-planning", "finance"},
	}
}

func TestNew_SeedsBootstrapAdmin(t *testing.T) {
	s, mem := newTestStore(t, Config{})

	users := usersIn(t, mem)
	require.Len(t, users, 1)
	assert.Equal(t, SeedAdminEmail, users[0].Email)
	assert.Equal(t, SeedAdminDepartment, users[0].Department)
	assert.NotEmpty(t, users[0].ID)
	assert.NotEqual(t, SeedAdminPassword, users[0].PasswordHash)

	// the seeded credential must work
	session, err := s.LoginUser(context.Background(), SeedAdminEmail, SeedAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, SeedAdminEmail, session.Email)

	// projects and resources start empty, session key untouched by seeding
	for _, key := range []string{ProjectsKey, ResourcesKey} {
		raw, ok, err := mem.Get(key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, "[]", raw)
	}
}

func TestNew_SeedingIsIdempotent(t *testing.T) {
	mem := kv.NewMemKV()

	s1, err := New(mem, Config{}, discardLogger())
	require.NoError(t, err)

	_, err = s1.RegisterUser(context.Background(), "Asha Verma", "asha@city.gov.in", "it", "s3cret!")
	require.NoError(t, err)

	// reopening over the same KV must not reseed or clobber anything
	_, err = New(mem, Config{}, discardLogger())
	require.NoError(t, err)

	users := usersIn(t, mem)
	require.Len(t, users, 2)
	assert.Equal(t, "asha@city.gov.in", users[1].Email)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	s, mem := newTestStore(t, Config{})
	ctx := context.Background()

	first, err := s.RegisterUser(ctx, "Asha Verma", "asha@city.gov.in", "it", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	before := usersIn(t, mem)

	_, err = s.RegisterUser(ctx, "Impostor", "asha@city.gov.in", "finance", "other")
	require.ErrorIs(t, err, common.ErrDuplicateIdentity)

	// the failed call performed no write
	assert.Empty(t, cmp.Diff(before, usersIn(t, mem)))
}

func TestRegisterUser_ActivatesSessionWithoutCredential(t *testing.T) {
	s, mem := newTestStore(t, Config{})
	ctx := context.Background()

	user, err := s.RegisterUser(ctx, "Admin User", "admin@city.gov.in", "Municipal Administration", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	session, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.ID)
	assert.Equal(t, "admin@city.gov.in", session.Email)

	raw, ok, err := mem.Get(SessionKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "password")

	// acceptance scenario: seed plus the new account, two users total
	users := usersIn(t, mem)
	require.Len(t, users, 2)

	_, err = s.RegisterUser(ctx, "Admin User", "admin@city.gov.in", "Municipal Administration", "password123")
	require.ErrorIs(t, err, common.ErrDuplicateIdentity)
	assert.Len(t, usersIn(t, mem), 2)
}

func TestLoginUser(t *testing.T) {
	s, mem := newTestStore(t, Config{})
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "Asha Verma", "asha@city.gov.in", "it", "s3cret!")
	require.NoError(t, err)
	require.NoError(t, s.LogoutUser(ctx))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "ok", email: "asha@city.gov.in", password: "s3cret!"},
		{name: "wrong password", email: "asha@city.gov.in", password: "nope", wantErr: common.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@city.gov.in", password: "s3cret!", wantErr: common.ErrInvalidCredentials},
		{name: "email is case-sensitive", email: "Asha@city.gov.in", password: "s3cret!", wantErr: common.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := usersIn(t, mem)

			session, err := s.LoginUser(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, session.Email)
			}

			// login never mutates the users collection
			assert.Empty(t, cmp.Diff(before, usersIn(t, mem)))
		})
	}
}

func TestLogoutUser_Idempotent(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "Asha Verma", "asha@city.gov.in", "it", "s3cret!")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.LogoutUser(ctx))
		session, err := s.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
	}
}

func TestCurrentUser_AbsentOnFreshStore(t *testing.T) {
	s, _ := newTestStore(t, Config{})

	session, err := s.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCreateProject_RequiresSession(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ctx := context.Background()

	_, err := s.CreateProject(ctx, sampleDraft())
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestCreateProject_StampsServerFields(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ctx := context.Background()

	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	origNow := timeNow
	timeNow = func() time.Time { return created }
	t.Cleanup(func() { timeNow = origNow })

	_, err := s.RegisterUser(ctx, "Asha Verma", "asha@city.gov.in", "it", "s3cret!")
	require.NoError(t, err)

	project, err := s.CreateProject(ctx, sampleDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "asha@city.gov.in", project.CreatedBy)
	assert.Equal(t, created, project.CreatedAt)
}

func TestCreateProject_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "Asha Verma", "asha@city.gov.in", "it", "s3cret!")
	require.NoError(t, err)

	first, err := s.CreateProject(ctx, sampleDraft())
	require.NoError(t, err)

	second, err := s.CreateProject(ctx, models.ProjectDraft{
		Title:       "Smart Water Management System",
		Description: "IoT-based water monitoring across the city.",
		Status:      models.StatusPlanning,
		Location:    "Citywide",
		Deadline:    time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
		Departments: []string{"water-supply", "it", "environment"},
	})
	require.NoError(t, err)

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	// insertion order preserved, fields unchanged through serialization
	assert.Empty(t, cmp.Diff(*first, projects[0]))
	assert.Empty(t, cmp.Diff(*second, projects[1]))

	got, err := s.ProjectByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(*second, *got))

	_, err = s.ProjectByID(ctx, "no-such-id")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateResource_NoSessionNeededByDefault(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ctx := context.Background()

	resource, err := s.CreateResource(ctx, models.ResourceDraft{
		Title:       "Traffic Flow Dataset",
		Description: "City-wide traffic flow data from major intersections.",
		Department:  "transportation",
		Type:        "dataset",
		Author:      "Traffic Department",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resource.ID)
	assert.False(t, resource.CreatedAt.IsZero())

	resources, err := s.Resources(ctx)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Empty(t, cmp.Diff(*resource, resources[0]))

	got, err := s.ResourceByID(ctx, resource.ID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(*resource, *got))
}

func TestCreateResource_PolicyRequiresSession(t *testing.T) {
	s, _ := newTestStore(t, Config{RequireAuthForResourceCreation: true})
	ctx := context.Background()

	draft := models.ResourceDraft{
		Title:       "Urban Planning Guidelines",
		Description: "Guidelines for sustainable urban development.",
		Department:  "urban-planning",
		Type:        "document",
		Author:      "Planning Commission",
	}

	_, err := s.CreateResource(ctx, draft)
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	resources, err := s.Resources(ctx)
	require.NoError(t, err)
	assert.Empty(t, resources)

	_, err = s.LoginUser(ctx, SeedAdminEmail, SeedAdminPassword)
	require.NoError(t, err)

	_, err = s.CreateResource(ctx, draft)
	require.NoError(t, err)
}

func TestExportAndImportSnapshot(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ctx := context.Background()

	_, err := s.RegisterUser(ctx, "Asha Verma", "asha@city.gov.in", "it", "s3cret!")
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, sampleDraft())
	require.NoError(t, err)
	_, err = s.CreateResource(ctx, models.ResourceDraft{
		Title: "Traffic Flow Dataset", Description: "d", Department: "transportation",
		Type: "dataset", Author: "Traffic Department",
	})
	require.NoError(t, err)

	snap, err := s.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Users, 2) // seed + registered
	assert.Len(t, snap.Projects, 1)
	assert.Len(t, snap.Resources, 1)

	// restore into a fresh store over a different KV
	restored, _ := newTestStore(t, Config{})
	require.NoError(t, restored.ImportSnapshot(ctx, snap))

	got, err := restored.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(snap, got))
}

func TestStore_OverFileKV(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	fileKV, err := kv.NewFileKV(dir)
	require.NoError(t, err)
	s, err := New(fileKV, Config{}, discardLogger())
	require.NoError(t, err)

	_, err = s.RegisterUser(ctx, "Asha Verma", "asha@city.gov.in", "it", "s3cret!")
	require.NoError(t, err)
	project, err := s.CreateProject(ctx, sampleDraft())
	require.NoError(t, err)

	// a second store over the same directory sees the persisted state
	reopenedKV, err := kv.NewFileKV(dir)
	require.NoError(t, err)
	reopened, err := New(reopenedKV, Config{}, discardLogger())
	require.NoError(t, err)

	session, err := reopened.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "asha@city.gov.in", session.Email)

	projects, err := reopened.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Empty(t, cmp.Diff(*project, projects[0]))
}
