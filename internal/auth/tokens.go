package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aidanwoods.dev/go-paseto"

	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
	"github.com/recipehub/recipehub-server/internal/id"
)

const (
	tokenIssuer   = "recipehub-identity"
	tokenAudience = "recipehub-api"
)

// Verifier resolves a raw bearer token to the caller identity.
// Implementations return errors coded UNAUTHORIZED or TOKEN_EXPIRED.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// TokenService issues and verifies PASETO v4.local access tokens.
// The server only verifies; issuing is used by the CLI and tests in place of
// the external identity provider.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	duration     time.Duration
	now          func() time.Time
}

// NewTokenService creates a token service from a raw 32-byte key.
func NewTokenService(key []byte, duration time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey: symmetricKey,
		duration:     duration,
		now:          time.Now,
	}, nil
}

// Issue creates an access token for the identity.
func (s *TokenService) Issue(identity Identity) (string, error) {
	if identity.UserID == "" {
		return "", fmt.Errorf("issue token: user id is required")
	}

	now := s.now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(identity.UserID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.duration))

	tokenID, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("user_id", identity.UserID)
	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("email", identity.Email)
	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("name", identity.Name)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Verify decrypts the token, checks issuer, audience and validity window,
// and returns the caller identity.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	return claims.Identity(), nil
}

func (s *TokenService) parse(tokenString string) (*AccessClaims, error) {
	// Expiry is checked separately so expired tokens get their own code.
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnauthorized, "invalid token")
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnauthorized, "invalid token claims")
	}

	now := s.now()
	if !claims.Expiration.IsZero() && !now.Before(claims.Expiration) {
		return nil, domainerrors.TokenExpired("token expired")
	}
	if !claims.NotBefore.IsZero() && now.Before(claims.NotBefore) {
		return nil, domainerrors.Unauthorized("token not yet valid")
	}
	if claims.Identity().UserID == "" {
		return nil, domainerrors.Unauthorized("token has no subject")
	}

	return &claims, nil
}

// Duration returns the configured token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", domainerrors.Unauthorized("missing authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", domainerrors.Unauthorized("invalid authorization header format")
	}

	return strings.TrimSpace(token), nil
}
