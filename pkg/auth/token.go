// Package auth issues and parses the terminal tokens registers authenticate
// with. A token binds one cashier to one register in one branch.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/farmapunto/pos-backend/pkg/config"
)

// TerminalClaims are the custom claims carried by a terminal token.
type TerminalClaims struct {
	UserID     string `json:"user_id"`
	BranchID   string `json:"branch_id"`
	RegisterID string `json:"register_id"`
	jwt.RegisteredClaims
}

// IssueTerminalToken signs a token for the given terminal identity.
func IssueTerminalToken(cfg config.JWTConfig, userID, branchID, registerID string) (string, error) {
	now := time.Now()
	claims := TerminalClaims{
		UserID:     userID,
		BranchID:   branchID,
		RegisterID: registerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign terminal token: %w", err)
	}
	return signed, nil
}

// ParseTerminalToken validates the signature, issuer, and expiry and returns
// the terminal claims.
func ParseTerminalToken(cfg config.JWTConfig, raw string) (*TerminalClaims, error) {
	claims := &TerminalClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse terminal token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid terminal token")
	}
	if claims.UserID == "" || claims.RegisterID == "" {
		return nil, fmt.Errorf("terminal token missing identity claims")
	}
	return claims, nil
}
