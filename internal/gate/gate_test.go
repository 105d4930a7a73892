package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quitecodedevelopers/elearn-go/internal/session"
)

func TestGateStartsChecking(t *testing.T) {
	g := NewStudentGate(session.NewMemory(), nil)

	assert.Equal(t, Checking, g.State())
	assert.False(t, g.CanRender())
}

func TestGateAllowsWithToken(t *testing.T) {
	sess := session.NewMemory()
	sess.Set("tok")

	redirected := ""
	g := NewStudentGate(sess, func(target string) { redirected = target })

	assert.Equal(t, Allowed, g.Mount())
	assert.True(t, g.CanRender())
	assert.Empty(t, redirected)
}

func TestGateDeniesAndRedirectsWithoutToken(t *testing.T) {
	redirected := ""
	g := NewStudentGate(session.NewMemory(), func(target string) { redirected = target })

	assert.Equal(t, Denied, g.Mount())
	assert.False(t, g.CanRender())
	assert.Equal(t, StudentLoginRoute, redirected)
}

func TestAdminGateRedirectsToAdminLogin(t *testing.T) {
	redirected := ""
	g := NewAdminGate(session.NewMemory(), func(target string) { redirected = target })

	g.Mount()
	assert.Equal(t, AdminLoginRoute, redirected)
}

func TestGateDoesNotRecheckWithinMount(t *testing.T) {
	sess := session.NewMemory()
	sess.Set("tok")
	g := NewStudentGate(sess, nil)

	assert.Equal(t, Allowed, g.Mount())

	// Token revoked mid-session: the settled gate keeps its decision.
	sess.Clear()
	assert.Equal(t, Allowed, g.Mount())
	assert.True(t, g.CanRender())
}

func TestGateRemountReevaluates(t *testing.T) {
	sess := session.NewMemory()
	sess.Set("tok")
	g := NewStudentGate(sess, nil)

	assert.Equal(t, Allowed, g.Mount())

	sess.Clear()
	assert.Equal(t, Denied, g.Remount())

	sess.Set("tok2")
	assert.Equal(t, Allowed, g.Remount())
}

func TestGateRedirectCountedOncePerMount(t *testing.T) {
	calls := 0
	g := NewStudentGate(session.NewMemory(), func(string) { calls++ })

	g.Mount()
	g.Mount()
	g.Mount()
	assert.Equal(t, 1, calls)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "CHECKING", Checking.String())
	assert.Equal(t, "ALLOWED", Allowed.String())
	assert.Equal(t, "DENIED", Denied.String())
}
