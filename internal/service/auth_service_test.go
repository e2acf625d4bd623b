package service

import (
	"errors"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(newTestRepos(db).user, testConfig())
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newAuthFixture(t)

	user := &model.User{Name: "Ann", Email: "ann@example.com", Password: "s3cret", Role: model.Student}
	require.NoError(t, svc.Register(user))
	assert.NotEqual(t, "s3cret", user.Password)

	authed, err := svc.Authenticate("ann@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthFixture(t)

	require.NoError(t, svc.Register(&model.User{Name: "Ann", Email: "ann@example.com", Password: "x"}))
	err := svc.Register(&model.User{Name: "Imposter", Email: "ann@example.com", Password: "y"})
	assert.True(t, errors.Is(err, util.ErrEmailRegistered))
}

func TestLoginIssuesParsableToken(t *testing.T) {
	svc := newAuthFixture(t)
	user := &model.User{Name: "Ann", Email: "ann@example.com", Password: "s3cret", Role: model.Teacher}
	require.NoError(t, svc.Register(user))

	token, err := svc.Login("ann@example.com", "s3cret")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	require.NoError(t, svc.Register(&model.User{Name: "Ann", Email: "ann@example.com", Password: "s3cret"}))

	_, err := svc.Authenticate("ann@example.com", "wrong")
	assert.True(t, errors.Is(err, util.ErrInvalidCredentials))

	_, err = svc.Authenticate("nobody@example.com", "s3cret")
	assert.True(t, errors.Is(err, util.ErrInvalidCredentials))
}
