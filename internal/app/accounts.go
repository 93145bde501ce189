package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/auth"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/validation"
)

type SignupInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	IsAdmin  bool   `json:"-"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful login hands back to the caller.
type Session struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expires_in"`
	User      domain.User `json:"user"`
}

type Accounts struct {
	users  domain.UserStore
	tokens *auth.TokenService
	v      *validation.Validator
}

func NewAccounts(users domain.UserStore, tokens *auth.TokenService, v *validation.Validator) *Accounts {
	return &Accounts{users: users, tokens: tokens, v: v}
}

// Signup creates a user. A taken email yields domain.ErrConflict.
func (a *Accounts) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := a.v.Validate(in); err != nil {
		return domain.User{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := a.users.CreateUser(ctx, domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
	})
	if err != nil {
		return domain.User{}, err
	}
	log.Info().Int64("user_id", u.ID).Bool("admin", u.IsAdmin).Msg("user created")
	return u, nil
}

// Login checks credentials and issues a session token. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (a *Accounts) Login(ctx context.Context, in LoginInput) (Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := a.v.Validate(in); err != nil {
		return Session{}, err
	}
	u, err := a.users.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.VerifyPassword(u.PasswordHash, in.Password) {
		return Session{}, domain.ErrInvalidCredentials
	}
	tok, err := a.tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, ExpiresIn: int(a.tokens.TTL().Seconds()), User: u}, nil
}

func (a *Accounts) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	return a.tokens.Verify(token)
}

// Me returns the stored user behind p.
func (a *Accounts) Me(ctx context.Context, p domain.Principal) (domain.User, error) {
	u, err := a.users.GetUser(ctx, p.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrUnauthorized
	}
	return u, err
}

// requireAdmin re-reads the user so a revoked admin flag takes effect before the token expires.
func requireAdmin(ctx context.Context, users domain.UserStore, p domain.Principal) error {
	u, err := users.GetUser(ctx, p.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if !u.IsAdmin {
		return domain.ErrForbidden
	}
	return nil
}
