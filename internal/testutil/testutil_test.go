package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
)

func TestSetupMiniRedis_FastForward(t *testing.T) {
	client, mr := SetupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute).Err())
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("k"))
}

func TestTestTimeProvider(t *testing.T) {
	p := NewTestTimeProvider(TestTime())
	p.AddTime(time.Hour)
	assert.Equal(t, TestTime().Add(time.Hour), p.Now())

	p.SetTime(TestTime())
	assert.Equal(t, TestTime(), p.Now())
}

func TestSetupTestRedis(t *testing.T) {
	client := SetupTestRedis(t)
	require.NoError(t, client.Ping(context.Background()).Err())
}

func TestSessionBuilder(t *testing.T) {
	s := NewSession().
		WithRole(domainauth.RoleOwner).
		WithID("s-1").
		WithName("Olivia").
		WithBackendToken("cred-1").
		Build()
	assert.Equal(t, domainauth.RoleOwner, s.Role)
	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, "Olivia", s.Name)
	assert.Equal(t, "cred-1", s.BackendToken)
	assert.False(t, s.Expired(time.Now()))
}
