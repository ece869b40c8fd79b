package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-site/internal/baas"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.svc.Auth.Login(ctx, " owner@example.com ", "owner-pass")
	require.NoError(t, err)
	id, err := f.svc.Auth.Resolve(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, id.ID)

	_, err = f.svc.Auth.Login(ctx, "owner@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password", LoginMessage(err))

	_, err = f.svc.Auth.Login(ctx, "ghost@example.com", "x")
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Equal(t, "No account found with this email", LoginMessage(err))

	_, err = f.svc.Auth.Login(ctx, "", "")
	var v *ValidationError
	assert.ErrorAs(t, err, &v)
	assert.Equal(t, "Login failed. Please try again.", LoginMessage(errors.New("timeout")))
}

func TestLogoutInvalidatesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Auth.Logout(ctx, f.memberS))
	_, err := f.svc.Auth.Resolve(ctx, f.memberS)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	assert.NoError(t, f.svc.Auth.Logout(ctx, f.memberS), "second logout is harmless")
	assert.NoError(t, f.svc.Auth.Logout(ctx, baas.Session{}))
}

func TestResolveAnonymous(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Auth.Resolve(context.Background(), baas.Session{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Equal(t, "Your session has expired. Please log in again.", UserMessage(err))
}
