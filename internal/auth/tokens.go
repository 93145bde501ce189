package auth

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"aidanwoods.dev/go-paseto"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"hotel_finder/internal/domain"
)

const (
	tokenIssuer   = "hotel_finder"
	tokenAudience = "hotel_finder-web"
)

// TokenService issues and verifies PASETO v4.local session tokens.
type TokenService struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
}

// NewTokenService builds a service from a 64-char hex key. An empty key generates a random one.
func NewTokenService(keyHex string, ttl time.Duration) (*TokenService, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if keyHex == "" {
		return &TokenService{key: paseto.NewV4SymmetricKey(), ttl: ttl}, nil
	}
	b, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("session key is not hex: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(b))
	}
	key, err := paseto.V4SymmetricKeyFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	return &TokenService{key: key, ttl: ttl}, nil
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue returns an encrypted token naming u as subject.
func (s *TokenService) Issue(u domain.User) (string, error) {
	jti, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	now := time.Now()
	t := paseto.NewToken()
	t.SetIssuer(tokenIssuer)
	t.SetAudience(tokenAudience)
	t.SetSubject(strconv.FormatInt(u.ID, 10))
	t.SetIssuedAt(now)
	t.SetNotBefore(now)
	t.SetExpiration(now.Add(s.ttl))
	t.SetJti(jti)
	if err := t.Set("email", u.Email); err != nil {
		return "", fmt.Errorf("set email claim: %w", err)
	}
	return t.V4Encrypt(s.key, nil), nil
}

// Verify decrypts token and checks issuer, audience and expiry.
func (s *TokenService) Verify(token string) (domain.Principal, error) {
	p := paseto.NewParser()
	p.AddRule(paseto.ForAudience(tokenAudience))
	p.AddRule(paseto.IssuedBy(tokenIssuer))
	p.AddRule(paseto.NotExpired())
	p.AddRule(paseto.ValidAt(time.Now()))

	t, err := p.ParseV4Local(s.key, token, nil)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	sub, err := t.GetSubject()
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	email, _ := t.GetString("email")
	return domain.Principal{UserID: id, Email: email}, nil
}
