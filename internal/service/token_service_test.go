package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

func TestTokenServiceIssueAndValidate(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "hostelflow"})
	user := models.User{ID: "u1", Email: "admin@hostelflow.com", Role: models.RoleWarden, SessionID: "01HZX3"}

	resp, err := svc.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, user, resp.User)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleWarden, claims.Role)
	assert.Equal(t, "hostelflow", claims.Issuer)
	assert.Equal(t, "01HZX3", claims.ID)
}

func TestTokenServiceRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Secret: "other", Expiry: time.Hour})
	resp, err := issuer.Issue(models.User{ID: "u1"})
	require.NoError(t, err)

	svc := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Hour})
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	expired := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(models.User{ID: "u1"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(old.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
