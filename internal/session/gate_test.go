package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imsdash/internal/domain"
)

func TestGuard(t *testing.T) {
	assert.Equal(t, GuardRedirectLogin, Guard(domain.Session{}))
	assert.Equal(t, GuardRender, Guard(domain.Session{
		Authenticated: true,
		Token:         "t",
		Role:          domain.RoleAdmin,
		User:          testUser(),
	}))
}

func TestGateAdmits(t *testing.T) {
	gate := Allow(domain.RoleAdmin, domain.RolePanelist)

	admin := domain.Session{Authenticated: true, Role: domain.RoleAdmin}
	panelist := domain.Session{Authenticated: true, Role: domain.RolePanelist}
	ta := domain.Session{Authenticated: true, Role: domain.RoleTAMember}

	assert.True(t, gate.Admits(admin))
	assert.True(t, gate.Admits(panelist))
	assert.False(t, gate.Admits(ta))
}

func TestGateRejectsMissingOrUnknownRole(t *testing.T) {
	gate := Allow(domain.RoleAdmin)

	assert.False(t, gate.Admits(domain.Session{}))
	assert.False(t, gate.Admits(domain.Session{Role: domain.Role("superuser")}))
}

func TestEmptyGateAdmitsNobody(t *testing.T) {
	gate := Allow()
	assert.False(t, gate.Admits(domain.Session{Authenticated: true, Role: domain.RoleAdmin}))
}
