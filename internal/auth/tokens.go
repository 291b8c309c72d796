package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"activeresident/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Signer issues and verifies HS256 access/refresh token pairs.
type Signer struct {
	key        []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSigner(key []byte, issuer string, accessTTL, refreshTTL time.Duration) *Signer {
	return &Signer{key: key, issuer: issuer, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *Signer) AccessTTL() time.Duration { return s.accessTTL }

func (s *Signer) sign(sub domain.UserID, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": strconv.FormatInt(sub, 10),
		"use": use,
		"iat": jwt.NewNumericDate(now).Unix(),
		"exp": jwt.NewNumericDate(now.Add(ttl)).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.key)
}

func (s *Signer) IssueAccess(sub domain.UserID) (string, error) {
	return s.sign(sub, tokenUseAccess, s.accessTTL)
}

func (s *Signer) IssueRefresh(sub domain.UserID) (string, error) {
	return s.sign(sub, tokenUseRefresh, s.refreshTTL)
}

func (s *Signer) verify(raw, use string) (domain.UserID, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	if u, _ := claims["use"].(string); u != use {
		return 0, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func (s *Signer) VerifyAccess(raw string) (domain.UserID, error) {
	return s.verify(raw, tokenUseAccess)
}

func (s *Signer) VerifyRefresh(raw string) (domain.UserID, error) {
	return s.verify(raw, tokenUseRefresh)
}
