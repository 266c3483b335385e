package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/internhub/pkg/config"
)

var ErrInvalidToken = errors.New("invalid token")

type Kind int

const (
	Access Kind = iota
	Refresh
)

func (k Kind) String() string {
	if k == Refresh {
		return "refresh"
	}
	return "access"
}

// Codec signs, verifies and decodes both token families. Each family has its
// own secret and lifespan.
type Codec struct {
	cfg config.Tokens
	now func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now for issuing and for library expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(cfg config.Tokens, opts ...Option) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Codec{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) Now() time.Time { return c.now() }

// Signed timestamps only keep whole seconds, so expiries are computed from
// the truncated issue time to match the exp claim exactly.
func truncate(t time.Time) time.Time {
	return t.Truncate(jwt.TimePrecision)
}

func (c *Codec) AccessExpiry(issuedAt time.Time) time.Time {
	return truncate(issuedAt).Add(c.cfg.AccessLifespan)
}

// RefreshExpiry is the expiry a refresh record must carry so that it agrees
// with the exp signed into its token.
func (c *Codec) RefreshExpiry(issuedAt time.Time) time.Time {
	return truncate(issuedAt).Add(c.cfg.RefreshLifespan)
}

func (c *Codec) SignAccess(p AccessPayload, issuedAt time.Time) (string, error) {
	claims := AccessClaims{
		Email: p.Email,
		Role:  p.Role,
		RTI:   p.RTI,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(truncate(issuedAt)),
			ExpiresAt: jwt.NewNumericDate(c.AccessExpiry(issuedAt)),
		},
	}
	return sign(claims, c.cfg.AccessSecret)
}

func (c *Codec) SignRefresh(p RefreshPayload, issuedAt time.Time) (string, error) {
	claims := RefreshClaims{
		RecordID: p.RecordID,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(truncate(issuedAt)),
			ExpiresAt: jwt.NewNumericDate(c.RefreshExpiry(issuedAt)),
		},
	}
	return sign(claims, c.cfg.RefreshSecret)
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess checks signature and expiry against the access secret and
// returns the claims.
func (c *Codec) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := c.parse(tokenStr, &claims, c.cfg.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: access token has no subject", ErrInvalidToken)
	}
	return &claims, nil
}

func (c *Codec) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.parse(tokenStr, &claims, c.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.RecordID == "" {
		return nil, fmt.Errorf("%w: refresh token has no subject or record id", ErrInvalidToken)
	}
	return &claims, nil
}

// Verify reports whether tokenStr is a valid token of the given kind.
func (c *Codec) Verify(kind Kind, tokenStr string) error {
	var err error
	switch kind {
	case Refresh:
		_, err = c.VerifyRefresh(tokenStr)
	default:
		_, err = c.VerifyAccess(tokenStr)
	}
	return err
}

func (c *Codec) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return ErrInvalidToken
	}
	return nil
}

// DecodeAccess reads the claims without checking the signature. Only use it
// on tokens that were already verified, or for a cheap peek.
func DecodeAccess(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &claims, nil
}

func DecodeRefresh(tokenStr string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &claims, nil
}
