package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"newsdesk/config"
	"newsdesk/models"
	"newsdesk/repositories"
	"newsdesk/services"
	"newsdesk/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sqliteOpener(t *testing.T) (Opener, *gorm.DB, *int) {
	db := testutil.NewDB(t)
	userRepo := repositories.NewUserRepository(db)
	admin := services.NewAdminService(
		userRepo,
		repositories.NewPublisherRepository(db),
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		services.NewRoleGroupSync(userRepo),
	)

	releases := 0
	open := func(ctx context.Context) (*Env, func(), error) {
		return &Env{
			Admin:   admin,
			Migrate: func(ctx context.Context) error { return config.Migrate(db.WithContext(ctx)) },
		}, func() { releases++ }, nil
	}
	return open, db, &releases
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(open)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	open, _, releases := sqliteOpener(t)

	out, err := run(t, open, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "schema up to date\n", out)
	assert.Equal(t, 1, *releases)
}

func TestPublisherCommands(t *testing.T) {
	open, db, _ := sqliteOpener(t)

	out, err := run(t, open, "publisher", "create", "--name", "Daily Planet", "--description", "Metropolis")
	require.NoError(t, err)
	assert.Contains(t, out, `"Daily Planet"`)

	out, err = run(t, open, "publishers", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Daily Planet")
	assert.Contains(t, out, "Metropolis")

	var p models.Publisher
	require.NoError(t, db.First(&p).Error)

	out, err = run(t, open, "publisher", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "deleted publisher 1\n", out)

	_, err = run(t, open, "publisher", "delete", "1")
	assert.IsType(t, models.ErrorNotFound{}, err)

	_, err = run(t, open, "publisher", "delete", "abc")
	assert.ErrorContains(t, err, "invalid publisher id")

	_, err = run(t, open, "publisher", "create")
	assert.Error(t, err, "--name is required")
}

func TestUserCommands(t *testing.T) {
	open, db, _ := sqliteOpener(t)

	out, err := run(t, open, "user", "create", "--username", "clark", "--password", "secret123", "--role", "journalist", "--email", "clark@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "clark (JOURNALIST)")

	out, err = run(t, open, "user", "assign-role", "clark", "EDITOR")
	require.NoError(t, err)
	assert.Equal(t, "clark is now EDITOR\n", out)

	var stored models.User
	require.NoError(t, db.Preload("Groups").Where("username = ?", "clark").First(&stored).Error)
	assert.Equal(t, models.RoleEditor, stored.Role)
	require.Len(t, stored.Groups, 1)
	assert.Equal(t, "Editors", stored.Groups[0].Name)

	_, err = run(t, open, "user", "assign-role", "clark", "OWNER")
	var verr models.ErrorValidation
	assert.True(t, errors.As(err, &verr))

	_, err = run(t, open, "user", "create", "--username", "clark", "--password", "secret123")
	assert.IsType(t, models.ErrorConflict{}, err)
}

func TestOpenerFailure(t *testing.T) {
	failing := func(ctx context.Context) (*Env, func(), error) {
		return nil, nil, errors.New("db down")
	}
	_, err := run(t, failing, "migrate")
	assert.EqualError(t, err, "connecting: db down")
}
