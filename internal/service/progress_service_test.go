package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
)

type mockProgressDir struct {
	progress models.ProgressMap
	err      error
	updates  map[string]float64
}

func (m *mockProgressDir) Progress(context.Context) (models.ProgressMap, error) {
	return m.progress, m.err
}

func (m *mockProgressDir) UpdateProgress(_ context.Context, courseID string, percent float64) error {
	if m.updates == nil {
		m.updates = map[string]float64{}
	}
	m.updates[courseID] = percent
	return nil
}

func TestResolveProgressUnauthenticatedIsEmptyNotError(t *testing.T) {
	svc := NewProgressService(&mockProgressDir{}, session.NewMemory(), zap.NewNop())

	progress, err := svc.ResolveProgress(context.Background())
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Empty(t, progress)
}

func TestResolveProgressFailureReturnsEmptyMapAndError(t *testing.T) {
	dir := &mockProgressDir{err: apperr.ErrTransport}
	svc := NewProgressService(dir, loggedIn(), zap.NewNop())

	progress, err := svc.ResolveProgress(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Recoverable(err))
	require.NotNil(t, progress)
	assert.Empty(t, progress)
}

func TestMarkCompleteComputesPercentFromPosition(t *testing.T) {
	dir := &mockProgressDir{}
	svc := NewProgressService(dir, loggedIn(), zap.NewNop())
	lectures := fourLectures("c1")

	percent, err := svc.MarkComplete(context.Background(), "c1", "l2", lectures, 25)
	require.NoError(t, err)

	assert.Equal(t, 50.0, percent)
	assert.Equal(t, 50.0, dir.updates["c1"])
}

func TestMarkCompleteOrdersByOrderIndex(t *testing.T) {
	dir := &mockProgressDir{}
	svc := NewProgressService(dir, loggedIn(), zap.NewNop())
	shuffled := []models.Lecture{
		{ID: "l2", CourseID: "c1", OrderIndex: 2},
		{ID: "l1", CourseID: "c1", OrderIndex: 1},
	}

	percent, err := svc.MarkComplete(context.Background(), "c1", "l1", shuffled, 0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, percent, "l1 is position 1 of 2 after ordering")
}

func TestMarkCompleteMonotonicClampSuppressesWrite(t *testing.T) {
	dir := &mockProgressDir{}
	svc := NewProgressService(dir, loggedIn(), zap.NewNop())
	lectures := fourLectures("c1")

	// Lecture 1 gives 25%, but the stored value is already 75%.
	percent, err := svc.MarkComplete(context.Background(), "c1", "l1", lectures, 75)
	require.NoError(t, err)

	assert.Equal(t, 75.0, percent, "progress never decreases")
	assert.Empty(t, dir.updates, "no-op updates are not issued")
}

func TestMarkCompleteUnknownLecture(t *testing.T) {
	svc := NewProgressService(&mockProgressDir{}, loggedIn(), zap.NewNop())

	_, err := svc.MarkComplete(context.Background(), "c1", "ghost", fourLectures("c1"), 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMarkCompleteEmptyCourse(t *testing.T) {
	svc := NewProgressService(&mockProgressDir{}, loggedIn(), zap.NewNop())

	_, err := svc.MarkComplete(context.Background(), "c1", "l1", nil, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
