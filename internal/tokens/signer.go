package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshTokenBytes = 64

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim as a uuid.
func (c *AccessClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type Signer struct {
	Secret    []byte
	Issuer    string
	Audience  string
	AccessTTL time.Duration
	Now       func() time.Time
}

func NewSigner(secret []byte, issuer, audience string, accessTTL time.Duration) *Signer {
	return &Signer{
		Secret:    secret,
		Issuer:    issuer,
		Audience:  audience,
		AccessTTL: accessTTL,
		Now:       time.Now,
	}
}

func (s *Signer) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Sign mints an HS256 access token for the user and returns it with its
// expiry.
func (s *Signer) Sign(userID uuid.UUID, email string) (string, time.Time, error) {
	issuedAt := s.now()
	exp := issuedAt.Add(s.AccessTTL)

	claims := AccessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.Issuer,
			Audience:  jwt.ClaimStrings{s.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return token, exp, nil
}

// Parse validates signature, issuer, audience and expiry with no clock skew.
func (s *Signer) Parse(token string) (*AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.Issuer),
		jwt.WithAudience(s.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims AccessClaims
	tkn, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// GetExpiration reads the exp claim without verifying the signature.
func GetExpiration(token string) (time.Time, error) {
	var claims AccessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: no exp claim", ErrInvalidToken)
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether token is past its expiry. Unreadable tokens count
// as expired.
func (s *Signer) IsExpired(token string) bool {
	exp, err := GetExpiration(token)
	if err != nil {
		return true
	}
	return !s.now().Before(exp)
}

// RandomOpaqueToken returns 64 random bytes, standard base64 encoded.
func RandomOpaqueToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
