package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/service/mailer"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/jwtutil"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type fakeAccountRepo struct {
	byUsername map[string]*domain.Account
	byID       map[string]*domain.Account
	verified   []string
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byUsername: map[string]*domain.Account{},
		byID:       map[string]*domain.Account{},
	}
}

func (r *fakeAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	if _, ok := r.byUsername[a.Username]; ok {
		return xerrors.ErrUserAlreadyExists
	}
	r.byUsername[a.Username] = a
	r.byID[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	a, ok := r.byUsername[username]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) UpdateProfile(ctx context.Context, id string, upd *domain.ProfileUpdate) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	if upd.DisplayName != nil {
		a.DisplayName = upd.DisplayName
	}
	if upd.Phone != nil {
		a.Phone = upd.Phone
	}
	return a, nil
}

func (r *fakeAccountRepo) MarkEmailVerified(ctx context.Context, id string) error {
	a, ok := r.byID[id]
	if !ok {
		return xerrors.ErrUserNotFound
	}
	a.EmailVerified = true
	r.verified = append(r.verified, id)
	return nil
}

// fakeTokenStore is an in-memory stand-in for the redis cache.
type fakeTokenStore struct {
	values map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{values: map[string]string{}}
}

func (s *fakeTokenStore) Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) error {
	s.values[namespace+":"+key] = value.(string)
	return nil
}

func (s *fakeTokenStore) Get(ctx context.Context, namespace, key string) (string, error) {
	return s.values[namespace+":"+key], nil
}

func (s *fakeTokenStore) Delete(ctx context.Context, namespace, key string) error {
	delete(s.values, namespace+":"+key)
	return nil
}

func newTestUsecase(t *testing.T, repo *fakeAccountRepo, tokens *fakeTokenStore) (*Usecase, *jwtutil.Verifier) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	gen := jwtutil.NewGenerator(priv, "marketplace-service", "marketplace-clients", "kid-v1", time.Hour)
	ver := jwtutil.NewVerifier(&priv.PublicKey, "marketplace-service", "marketplace-clients")
	sf, err := id.NewSnowflake(1)
	require.NoError(t, err)
	return New(repo, gen, mailer.Noop{}, tokens, sf, "http://localhost:8080"), ver
}

func TestRegister_Validation(t *testing.T) {
	uc, _ := newTestUsecase(t, newFakeAccountRepo(), newFakeTokenStore())

	tests := []struct {
		name    string
		in      RegisterInput
		wantErr error
	}{
		{"missing username", RegisterInput{Email: "a@b.co", Password: "longenough"}, xerrors.ErrUsernameRequired},
		{"missing email", RegisterInput{Username: "alice", Password: "longenough"}, xerrors.ErrEmailRequired},
		{"bad email format", RegisterInput{Username: "alice", Email: "nope", Password: "longenough"}, xerrors.ErrInvalidEmailFormat},
		{"missing password", RegisterInput{Username: "alice", Email: "a@b.co"}, xerrors.ErrPasswordRequired},
		{"short password", RegisterInput{Username: "alice", Email: "a@b.co", Password: "short"}, xerrors.ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeAccountRepo()
	tokens := newFakeTokenStore()
	uc, _ := newTestUsecase(t, repo, tokens)

	summary, err := uc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", summary.Username)
	assert.Equal(t, domain.RoleUser, summary.Role)

	// Password is hashed, not stored raw.
	stored := repo.byUsername["alice"]
	assert.NotEqual(t, "correcthorse", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	// Display name and phone are optional and stay unset when omitted.
	assert.Nil(t, stored.DisplayName)
	assert.Nil(t, stored.Phone)

	// A verification token was persisted for the mail link.
	assert.Len(t, tokens.values, 1)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeAccountRepo()
	uc, _ := newTestUsecase(t, repo, newFakeTokenStore())

	in := RegisterInput{Username: "alice", Email: "alice@example.com", Password: "correcthorse"}
	_, err := uc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, xerrors.ErrUserAlreadyExists)
}

func TestLogin_SuccessIssuesVerifiableToken(t *testing.T) {
	repo := newFakeAccountRepo()
	uc, ver := newTestUsecase(t, repo, newFakeTokenStore())

	_, err := uc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)

	summary, token, err := uc.Login(context.Background(), "alice", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, "alice", summary.Username)
	require.NotEmpty(t, token)

	claims, err := ver.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, summary.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newFakeAccountRepo()
	uc, _ := newTestUsecase(t, repo, newFakeTokenStore())

	_, err := uc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)

	// Wrong password and unknown username answer identically.
	_, _, err = uc.Login(context.Background(), "alice", "wrongpassword")
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)

	_, _, err = uc.Login(context.Background(), "nobody", "correcthorse")
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)

	_, _, err = uc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
}

func TestVerifyEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	tokens := newFakeTokenStore()
	uc, _ := newTestUsecase(t, repo, tokens)

	_, err := uc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)

	var token string
	for k := range tokens.values {
		token = k[len("email_verify:"):]
	}
	require.NotEmpty(t, token)

	require.NoError(t, uc.VerifyEmail(context.Background(), token))
	assert.True(t, repo.byUsername["alice"].EmailVerified)

	// The token is single-use.
	err = uc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, xerrors.ErrTokenInvalid)
}

