package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
)

type profileDirectory interface {
	Me(ctx context.Context) (*models.User, error)
}

// ProfileService fetches the current user's profile.
type ProfileService struct {
	dir     profileDirectory
	session session.Provider
	logger  *zap.Logger
}

// NewProfileService constructs ProfileService.
func NewProfileService(dir profileDirectory, sess session.Provider, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{dir: dir, session: sess, logger: logger}
}

// Me returns the authenticated user's profile.
func (s *ProfileService) Me(ctx context.Context) (*models.User, error) {
	if _, ok := s.session.Token(); !ok {
		return nil, apperr.Clone(apperr.ErrUnauthorized, "log in to view your profile")
	}
	user, err := s.dir.Me(ctx)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	return user, nil
}
