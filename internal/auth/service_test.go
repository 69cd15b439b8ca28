package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeRepo) CreateUser(_ context.Context, user *User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id string) (*User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	user, ok := f.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (f *fakeRepo) SetActive(_ context.Context, id string, active bool) error {
	user, ok := f.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	user.IsActive = active
	return nil
}

func testConfig() *Config {
	return &Config{
		JWTSecret:          "test-secret",
		BCryptCost:         4, // min cost keeps tests fast
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
	}
}

func registerTestUser(t *testing.T, svc Service) *AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:           "amina@example.com",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
		AcceptTerms:     true,
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	resp := registerTestUser(t, svc)

	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, RoleMember, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)

	// Password must never be stored in the clear
	assert.NotEqual(t, "correct-horse", resp.User.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:           "amina@example.com",
		Password:        "another-pass",
		ConfirmPassword: "another-pass",
		AcceptTerms:     true,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())
	registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())
	registerTestUser(t, svc)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "amina@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())
	resp := registerTestUser(t, svc)

	require.NoError(t, repo.SetActive(context.Background(), resp.User.ID, false))

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "amina@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestValidateToken(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())
	resp := registerTestUser(t, svc)

	claims, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, RoleMember, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())

	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(newFakeRepo(), testConfig())
	resp := registerTestUser(t, issuer)

	other := testConfig()
	other.JWTSecret = "different-secret"
	verifier := NewService(newFakeRepo(), other)

	_, err := verifier.ValidateToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())
	resp := registerTestUser(t, svc)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())
	resp := registerTestUser(t, svc)

	_, err := svc.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshDisabledAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())
	resp := registerTestUser(t, svc)

	require.NoError(t, repo.SetActive(context.Background(), resp.User.ID, false))

	_, err := svc.Refresh(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}
