package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
)

type mockProfileDirectory struct {
	user *models.User
	err  error
}

func (m *mockProfileDirectory) Me(ctx context.Context) (*models.User, error) {
	return m.user, m.err
}

func TestProfileMeRequiresSession(t *testing.T) {
	svc := NewProfileService(&mockProfileDirectory{}, session.NewMemory(), nil)

	_, err := svc.Me(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestProfileMe(t *testing.T) {
	dir := &mockProfileDirectory{user: &models.User{ID: "u1", Name: "Jane", Email: "jane@student.test", Role: models.RoleStudent}}
	svc := NewProfileService(dir, loggedIn(), nil)

	user, err := svc.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, models.RoleStudent, user.Role)
}

func TestProfileMeWrapsDirectoryError(t *testing.T) {
	dir := &mockProfileDirectory{err: apperr.WithStatus(apperr.ErrRemoteStatus, 503)}
	svc := NewProfileService(dir, loggedIn(), nil)

	_, err := svc.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, 503, apperr.FromError(err).Status)
}
