package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/domain"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/internal/service/mailer"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/jwtutil"
	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

const (
	verifyNamespace = "email_verify"
	verifyTTL       = 48 * time.Hour
	minPasswordLen  = 8
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AccountRepo interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, upd *domain.ProfileUpdate) (*domain.Account, error)
	MarkEmailVerified(ctx context.Context, id string) error
}

// TokenStore holds short-lived email-verification tokens; the redis cache
// satisfies it.
type TokenStore interface {
	Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, namespace, key string) (string, error)
	Delete(ctx context.Context, namespace, key string) error
}

type Usecase struct {
	repo    AccountRepo
	jwtGen  *jwtutil.Generator
	mail    mailer.Sender
	tokens  TokenStore
	sf      *id.Snowflake
	baseURL string // public base URL used in verification links
}

func New(repo AccountRepo, jwtGen *jwtutil.Generator, mail mailer.Sender, tokens TokenStore, sf *id.Snowflake, baseURL string) *Usecase {
	return &Usecase{
		repo:    repo,
		jwtGen:  jwtGen,
		mail:    mail,
		tokens:  tokens,
		sf:      sf,
		baseURL: baseURL,
	}
}

type RegisterInput struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*domain.AccountSummary, error) {
	if in.Username == "" {
		return nil, xerrors.ErrUsernameRequired
	}
	if in.Email == "" {
		return nil, xerrors.ErrEmailRequired
	}
	if !emailRe.MatchString(in.Email) {
		return nil, xerrors.ErrInvalidEmailFormat
	}
	if in.Password == "" {
		return nil, xerrors.ErrPasswordRequired
	}
	if len(in.Password) < minPasswordLen {
		return nil, xerrors.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           u.sf.Generate(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		DisplayName:  in.DisplayName,
		Phone:        in.Phone,
	}
	if err := u.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	u.sendVerificationMail(ctx, account)

	return account.Summary(), nil
}

// sendVerificationMail is best-effort: registration never fails because mail
// delivery did.
func (u *Usecase) sendVerificationMail(ctx context.Context, account *domain.Account) {
	token := id.NewULID()
	if err := u.tokens.Set(ctx, verifyNamespace, token, account.ID, verifyTTL); err != nil {
		log.Printf("failed to store verification token for user %s: %v", account.ID, err)
		return
	}

	link := fmt.Sprintf("%s/api/auth/verify/%s", u.baseURL, token)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Confirm your email address by opening <a href=%q>this link</a>.</p>", account.Username, link)
	if err := u.mail.Send(account.Email, "Verify your email", body); err != nil {
		log.Printf("failed to send verification mail to user %s: %v", account.ID, err)
	}
}

// VerifyEmail consumes a verification token from the mail link.
func (u *Usecase) VerifyEmail(ctx context.Context, token string) error {
	userID, err := u.tokens.Get(ctx, verifyNamespace, token)
	if err != nil || userID == "" {
		return xerrors.ErrTokenInvalid
	}
	if err := u.repo.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}
	_ = u.tokens.Delete(ctx, verifyNamespace, token)
	return nil
}

// Login verifies the credentials and issues a session token. Unknown username
// and wrong password are indistinguishable to the caller.
func (u *Usecase) Login(ctx context.Context, username, password string) (*domain.AccountSummary, string, error) {
	if username == "" || password == "" {
		return nil, "", xerrors.ErrInvalidCredentials
	}

	account, err := u.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, xerrors.ErrUserNotFound) {
			return nil, "", xerrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", xerrors.ErrInvalidCredentials
	}

	token, _, err := u.jwtGen.Generate(account.ID, account.Username, account.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return account.Summary(), token, nil
}

func (u *Usecase) Profile(ctx context.Context, userID string) (*domain.AccountSummary, error) {
	account, err := u.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return account.Summary(), nil
}

func (u *Usecase) UpdateProfile(ctx context.Context, userID string, upd *domain.ProfileUpdate) (*domain.AccountSummary, error) {
	account, err := u.repo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	return account.Summary(), nil
}
