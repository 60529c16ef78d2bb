package service

import (
	"testing"

	"go-stockledger/internal/repository"
	"go-stockledger/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(repository.NewUserRepo(db))
}

func signup(t *testing.T, svc AuthService, email string) {
	t.Helper()
	_, err := svc.Signup(SignupRequest{
		FullName: "Test Owner",
		Email:    email,
		Password: "s3cret-pass",
		Business: "Test Trading",
	})
	require.NoError(t, err)
}

func TestSignup_OpensFreshTenant(t *testing.T) {
	svc := newTestAuth(t)

	first, err := svc.Signup(SignupRequest{FullName: "A", Email: "a@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	second, err := svc.Signup(SignupRequest{FullName: "B", Email: "b@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.TenantID)
	assert.NotEqual(t, first.TenantID, second.TenantID, "each signup is its own tenant")
	assert.NotEqual(t, "s3cret-pass", first.Password, "password must be stored hashed")
}

func TestSignup_NormalizesEmailAndRejectsDuplicates(t *testing.T) {
	svc := newTestAuth(t)
	signup(t, svc, "Owner@Example.com")

	_, err := svc.Signup(SignupRequest{FullName: "X", Email: "owner@example.com", Password: "s3cret-pass"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_ValidatesInput(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.Signup(SignupRequest{FullName: "X", Email: "not-an-email", Password: "s3cret-pass"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Signup(SignupRequest{FullName: "X", Email: "x@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_ReturnsTokenCarryingTenantScope(t *testing.T) {
	svc := newTestAuth(t)
	signup(t, svc, "owner@example.com")

	resp, err := svc.Login("owner@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.TenantID, claims.TenantID)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc := newTestAuth(t)
	signup(t, svc, "owner@example.com")

	_, err := svc.Login("owner@example.com", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
