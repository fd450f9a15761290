// Package auth provides bearer token issuance and validation for the
// service-to-service handshake. Identity is deliberately thin: credentials
// are configuration-held service accounts, not a user store.
package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that are expired, malformed, or
// signed with the wrong key.
var ErrInvalidToken = errors.New("invalid token")

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer issues and validates HS256-signed bearer tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an Issuer with the given signing secret and lifetimes.
func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

// Issue returns an access/refresh pair for the given subject.
func (i *Issuer) Issue(subject string) (TokenPair, error) {
	access, err := i.sign(subject, "access", i.accessTTL)
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "sign access token")
	}
	refresh, err := i.sign(subject, "refresh", i.refreshTTL)
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "sign refresh token")
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) sign(subject, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
	})
	return t.SignedString(i.secret)
}

// VerifyAccess validates an access token and returns its subject.
func (i *Issuer) VerifyAccess(token string) (string, error) {
	return i.verify(token, "access")
}

// VerifyRefresh validates a refresh token and returns its subject.
func (i *Issuer) VerifyRefresh(token string) (string, error) {
	return i.verify(token, "refresh")
}

func (i *Issuer) verify(token, typ string) (string, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || c.TokenType != typ {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
