package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIDSize = 16

var errMalformedToken = fmt.Errorf("%w: malformed credential", ErrUnauthenticated)

// Claims is the signed payload of a session credential. ID carries the
// session ID and Subject the owning user.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and parses session credentials with HS256.
type TokenCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenCodec builds a codec. The secret must not be empty.
func NewTokenCodec(secret []byte, issuer string) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	return &TokenCodec{secret: secret, issuer: issuer, now: time.Now}, nil
}

// Sign produces a compact credential for the given record.
func (c *TokenCodec) Sign(rec Record) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID,
			Subject:   rec.UserID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(rec.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
		},
	})
	return token.SignedString(c.secret)
}

// Parse validates the signature and registered claims and returns the claims.
// Every failure is reported as a malformed credential.
func (c *TokenCodec) Parse(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, errMalformedToken
	}
	if claims.ID == "" || claims.Subject == "" {
		return Claims{}, errMalformedToken
	}
	return claims, nil
}

func newSessionID() (string, error) {
	var raw [sessionIDSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
