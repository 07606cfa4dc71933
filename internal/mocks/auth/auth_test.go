package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/ports"
)

func TestStaticProvider(t *testing.T) {
	p := &StaticProvider{}
	got, err := p.LoginURL(context.Background(), ports.BeginInput{CallbackURL: "http://ui.test/auth/callback"})
	require.NoError(t, err)
	assert.Equal(t, "https://idp.test/?redirect=http://ui.test/auth/callback", got)
	assert.Equal(t, "http://ui.test/auth/callback", p.LastCallback())

	p.Err = errors.New("down")
	_, err = p.LoginURL(context.Background(), ports.BeginInput{})
	require.Error(t, err)
}

func TestFakeExchanger(t *testing.T) {
	f := NewFakeExchanger(domainauth.RoleAdmin)
	res, err := f.Exchange(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, res.Identity.Role)
	assert.Equal(t, "backend-admin", res.Credential)
	assert.Equal(t, 1, f.Exchanges())

	require.NoError(t, f.Revoke(context.Background(), "backend-admin"))
	assert.Equal(t, []string{"backend-admin"}, f.Revoked())
}

func TestMemorySessionStore(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()
	require.Error(t, s.Save(ctx, domainauth.Session{}))
	require.NoError(t, s.Save(ctx, domainauth.Session{ID: "a", Role: domainauth.RoleStaff}))
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStaff, got.Role)
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	require.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}
