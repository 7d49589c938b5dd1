// Package middleware provides HTTP middleware: authentication, structured
// logging, tracing and rate limiting.
package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the identity the provider vouches for. Handlers read it from
// c.Locals("session"); the user ID alone lives in c.Locals("userID").
type Session struct {
	UserID string
	Name   string
	Image  string
	Email  string
}

// SessionClaims are the JWT claims issued by the identity provider.
type SessionClaims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 session tokens.
type Authenticator struct {
	secret   []byte
	issuer   string
	audience string
}

// NewAuthenticator creates an Authenticator. Empty issuer or audience disables that check.
func NewAuthenticator(secret, issuer, audience string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer, audience: audience}
}

var (
	errMissingToken = errors.New("Authorization header required")
	errBadHeader    = errors.New("Invalid authorization header format")
	errBadToken     = errors.New("Invalid or expired token")
)

// Parse validates a raw token and returns the session it carries.
func (a *Authenticator) Parse(raw string) (*Session, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	var claims SessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, errBadToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errBadToken
	}

	return &Session{
		UserID: claims.Subject,
		Name:   claims.Name,
		Image:  claims.Picture,
		Email:  claims.Email,
	}, nil
}

// Issue signs a session token. Used by development tooling and tests.
func (a *Authenticator) Issue(s Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Name:    s.Name,
		Picture: s.Image,
		Email:   s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if a.audience != "" {
		claims.Audience = jwt.ClaimStrings{a.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", errMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadHeader
	}
	return token, nil
}

func setSession(c *fiber.Ctx, s *Session) {
	c.Locals("userID", s.UserID)
	c.Locals("session", s)
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": err.Error(),
		"code":  "UNAUTHORIZED",
	})
}

// Required rejects requests without a valid session.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return unauthorized(c, err)
		}
		s, err := a.Parse(raw)
		if err != nil {
			return unauthorized(c, err)
		}
		setSession(c, s)
		return c.Next()
	}
}

// Optional attaches the session when a valid token is present and lets
// anonymous requests through. A malformed or expired token is still rejected.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if errors.Is(err, errMissingToken) {
			return c.Next()
		}
		if err != nil {
			return unauthorized(c, err)
		}
		s, err := a.Parse(raw)
		if err != nil {
			return unauthorized(c, err)
		}
		setSession(c, s)
		return c.Next()
	}
}

// WebSocket accepts the token from the "token" query parameter, falling back
// to the Authorization header. Browsers cannot set headers on upgrades.
func (a *Authenticator) WebSocket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("token")
		if raw == "" {
			var err error
			if raw, err = bearerToken(c); err != nil {
				return unauthorized(c, err)
			}
		}
		s, err := a.Parse(raw)
		if err != nil {
			return unauthorized(c, err)
		}
		setSession(c, s)
		return c.Next()
	}
}

// SessionFrom returns the session attached by the auth middleware, if any.
func SessionFrom(c *fiber.Ctx) (*Session, bool) {
	s, ok := c.Locals("session").(*Session)
	return s, ok && s != nil
}
