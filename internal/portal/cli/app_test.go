package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma2005/civicbridge/internal/blob"
	"github.com/rsharma2005/civicbridge/internal/kv"
	"github.com/rsharma2005/civicbridge/internal/logging"
	"github.com/rsharma2005/civicbridge/internal/models"
	"github.com/rsharma2005/civicbridge/internal/portal/config"
	"github.com/rsharma2005/civicbridge/internal/store/local"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s, err := local.New(kv.NewMemKV(), local.Config{}, logger)
	require.NoError(t, err)

	blobs, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	return &App{
		config: &config.Config{},
		store:  s,
		blobs:  blobs,
		logger: logger,
	}
}

func stubOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i], _ = a.(string)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func TestApp_RegisterActivatesSession(t *testing.T) {
	app := newTestApp(t)
	out := stubOutput(t)
	stubPassword(t, "secret123")
	app.reader = bufio.NewReader(strings.NewReader("Ravi Kumar\nravi@city.gov.in\nUrban Planning\n"))

	err := app.Register(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ravi@city.gov.in", app.userEmail)
	assert.True(t, app.isLoggedIn())

	session, err := app.store.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "ravi@city.gov.in", session.Email)
	assert.Contains(t, strings.Join(*out, "\n"), "Registered and logged in as ravi@city.gov.in")
}

func TestApp_RegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	out := stubOutput(t)
	stubPassword(t, "secret123")

	app.reader = bufio.NewReader(strings.NewReader("Ravi Kumar\nravi@city.gov.in\nUrban Planning\n"))
	require.NoError(t, app.Register(context.Background()))

	app.reader = bufio.NewReader(strings.NewReader("Another Ravi\nravi@city.gov.in\nFinance\n"))
	err := app.Register(context.Background())
	assert.Error(t, err)
	assert.Contains(t, strings.Join(*out, "\n"), "A user with this email already exists")
}

func TestApp_LoginLogout(t *testing.T) {
	app := newTestApp(t)
	stubOutput(t)
	stubPassword(t, local.SeedAdminPassword)

	app.reader = bufio.NewReader(strings.NewReader(local.SeedAdminEmail + "\n"))
	require.NoError(t, app.Login(context.Background()))
	assert.Equal(t, local.SeedAdminEmail, app.userEmail)

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())

	session, err := app.store.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestApp_LoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	out := stubOutput(t)
	stubPassword(t, "not-the-password")

	app.reader = bufio.NewReader(strings.NewReader(local.SeedAdminEmail + "\n"))
	err := app.Login(context.Background())
	assert.Error(t, err)
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, strings.Join(*out, "\n"), "Invalid email or password")
}

func TestApp_NewProject(t *testing.T) {
	app := newTestApp(t)
	out := stubOutput(t)
	stubPassword(t, local.SeedAdminPassword)

	app.reader = bufio.NewReader(strings.NewReader(local.SeedAdminEmail + "\n"))
	require.NoError(t, app.Login(context.Background()))

	app.reader = bufio.NewReader(strings.NewReader(strings.Join([]string{
		"Metro Line Extension",
		"Extend the east-west metro corridor",
		"planning",
		"Sector 12",
		"2027-03-31",
		"transportation, finance",
	}, "\n") + "\n"))
	require.NoError(t, app.NewProject(context.Background()))

	projects, err := app.store.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Metro Line Extension", projects[0].Title)
	assert.Equal(t, models.StatusPlanning, projects[0].Status)
	assert.Equal(t, []string{"transportation", "finance"}, projects[0].Departments)
	assert.Equal(t, local.SeedAdminEmail, projects[0].CreatedBy)
	assert.Contains(t, strings.Join(*out, "\n"), "Created project")
}

func TestApp_NewProjectRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	out := stubOutput(t)

	require.NoError(t, app.store.LogoutUser(context.Background()))
	app.reader = bufio.NewReader(strings.NewReader(strings.Join([]string{
		"Metro Line Extension",
		"Extend the east-west metro corridor",
		"planning",
		"Sector 12",
		"2027-03-31",
		"transportation",
	}, "\n") + "\n"))

	err := app.NewProject(context.Background())
	assert.Error(t, err)
	assert.Contains(t, strings.Join(*out, "\n"), "You must be logged in to create a project")
}

func TestApp_NewResourceWithAttachment(t *testing.T) {
	app := newTestApp(t)
	stubOutput(t)

	src := filepath.Join(t.TempDir(), "budget.csv")
	require.NoError(t, os.WriteFile(src, []byte("head,count\n"), 0o600))

	app.reader = bufio.NewReader(strings.NewReader(strings.Join([]string{
		"Ward Budget 2026",
		"Approved ward-level budget allocations",
		"finance",
		"dataset",
		"Finance Cell",
		src,
	}, "\n") + "\n"))
	require.NoError(t, app.NewResource(context.Background()))

	resources, err := app.store.Resources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "Ward Budget 2026", resources[0].Title)
	assert.NotEmpty(t, resources[0].FileURL)
}

func TestApp_Export(t *testing.T) {
	app := newTestApp(t)
	stubOutput(t)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, app.Export(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Len(t, snap.Users, 1)
	assert.Equal(t, local.SeedAdminEmail, snap.Users[0].Email)
}
