package service

import (
	"testing"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newUserService(e *testEnv) UserService {
	return NewUserService(e.userRepo, e.pipeline, testSecret)
}

func TestRegisterDefaultsToVisitor(t *testing.T) {
	e := newTestEnv(t)
	svc := newUserService(e)

	user, err := svc.Register(e.ctx(), RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleVisitor, user.Role)

	entries := e.auditEntries(t, model.ModuleUser)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ActorID, "self-registration has no acting principal")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	e := newTestEnv(t)
	svc := newUserService(e)

	_, err := svc.Register(e.ctx(), RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(e.ctx(), RegisterRequest{Username: "ana", Email: "other@example.com", Password: "secret123"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = svc.Register(e.ctx(), RegisterRequest{Username: "other", Email: "ana@example.com", Password: "secret123"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestLoginAndRefresh(t *testing.T) {
	e := newTestEnv(t)
	svc := newUserService(e)

	registered, err := svc.Register(e.ctx(), RegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "secret123", Role: auth.RoleBusinessOwner,
	})
	require.NoError(t, err)

	_, err = svc.Login(e.ctx(), LoginUserRequest{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)

	tokens, err := svc.Login(e.ctx(), LoginUserRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.Token)
	require.NotEmpty(t, tokens.RefreshToken)

	parsed, err := jwt.Parse(tokens.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, registered.ID.String(), claims["sub"])
	assert.Equal(t, auth.RoleBusinessOwner, claims["role"])

	refreshed, err := svc.RefreshToken(e.ctx(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	// An access token must not pass as a refresh token.
	_, err = svc.RefreshToken(e.ctx(), RefreshTokenRequest{RefreshToken: tokens.Token})
	require.Error(t, err)
}

func TestCreateUserValidatesRole(t *testing.T) {
	e := newTestEnv(t)
	svc := newUserService(e)
	admin := e.seedUser(t, auth.RoleSuperAdmin)

	_, err := svc.CreateUser(e.ctx(), e.principal(admin), CreateUserRequest{
		Username: "staff", Email: "staff@example.com", Password: "secret123", Role: "janitor",
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	created, err := svc.CreateUser(e.ctx(), e.principal(admin), CreateUserRequest{
		Username: "staff", Email: "staff@example.com", Password: "secret123", Role: auth.RoleContentAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleContentAdmin, created.Role)
}
