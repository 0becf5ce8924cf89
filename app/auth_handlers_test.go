package app

import (
	"context"
	"testing"

	"fixcycle/auth"
	"fixcycle/domain"
	"fixcycle/pkg/httperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func asHTTPError(t *testing.T, err error) *httperror.Error {
	t.Helper()
	var httpErr *httperror.Error
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func strPtr(s string) *string { return &s }

func registerUser(t *testing.T, repo Repository, name, email, password, city, userType string) domain.User {
	t.Helper()

	req := &RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		UserType: userType,
	}
	if city != "" {
		req.City = strPtr(city)
	}

	res, err := NewRegisterHandler(repo, nil).Handle(context.Background(), req)
	require.NoError(t, err)
	return res.User
}

func TestRegisterThenLogin(t *testing.T) {
	repo := newFakeRepository()

	user := registerUser(t, repo, "Alice", "alice@example.com", "hunter22", "Austin", "repairer")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "repairer", user.UserType)
	assert.Equal(t, 0, user.EcoPoints)

	res, err := NewLoginHandler(repo, testJWTSecret).Handle(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, user.ID, res.User.ID)

	// The token resolves back to the registered identity.
	claims, err := auth.ValidateToken(testJWTSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDefaultsToRegular(t *testing.T) {
	repo := newFakeRepository()

	user := registerUser(t, repo, "Bob", "bob@example.com", "password1", "", "")
	assert.Equal(t, domain.UserTypeRegular, user.UserType)
	assert.Nil(t, user.City)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	handler := NewRegisterHandler(repo, nil)

	registerUser(t, repo, "Alice", "alice@example.com", "hunter22", "", "regular")

	// Any case variant of the email collides.
	_, err := handler.Handle(context.Background(), &RegisterRequest{
		Name:     "Alice Again",
		Email:    "ALICE@Example.COM",
		Password: "hunter22",
	})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, 409, httpErr.Status)
	assert.Equal(t, "auth.register.email_taken", httpErr.Code)
}

func TestRegisterValidation(t *testing.T) {
	repo := newFakeRepository()
	handler := NewRegisterHandler(repo, nil)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "a@b.com", Password: "password1"}},
		{"missing email", RegisterRequest{Name: "A", Password: "password1"}},
		{"malformed email", RegisterRequest{Name: "A", Email: "not-an-email", Password: "password1"}},
		{"missing password", RegisterRequest{Name: "A", Email: "a@b.com"}},
		{"short password", RegisterRequest{Name: "A", Email: "a@b.com", Password: "abc"}},
		{"unknown user type", RegisterRequest{Name: "A", Email: "a@b.com", Password: "password1", UserType: "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), &tt.req)
			httpErr := asHTTPError(t, err)
			assert.Equal(t, 400, httpErr.Status)
		})
	}
}

func TestLoginInvalidCredentialsUndifferentiated(t *testing.T) {
	repo := newFakeRepository()
	handler := NewLoginHandler(repo, testJWTSecret)

	registerUser(t, repo, "Alice", "alice@example.com", "hunter22", "", "regular")

	_, unknownErr := handler.Handle(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})
	_, wrongErr := handler.Handle(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})

	unknown := asHTTPError(t, unknownErr)
	wrong := asHTTPError(t, wrongErr)

	// Identical error shape for both failure modes, so callers cannot
	// enumerate accounts.
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Status, wrong.Status)
	assert.Equal(t, unknown.Message, wrong.Message)
	assert.Equal(t, 400, wrong.Status)
}
