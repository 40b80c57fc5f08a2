// Package token issues and validates operator bearer tokens.
//
// Authentication proper lives outside the engine; this package only encodes
// the already-established counter/branch identity into a signed token so the
// HTTP layer can pass an explicit actor to the lifecycle service.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"turnero/internal/platform/middleware"
	id "turnero/pkg/domain"
)

const issuer = "turnero"

type operatorClaims struct {
	CounterID string `json:"counter_id"`
	BranchID  string `json:"branch_id"`
	jwt.RegisteredClaims
}

// Manager signs and validates operator tokens with an HMAC key.
type Manager struct {
	signingKey []byte
	ttl        time.Duration
}

func NewManager(signingKey string, ttl time.Duration) *Manager {
	return &Manager{signingKey: []byte(signingKey), ttl: ttl}
}

// Issue builds a signed token for an operator at the given counter.
func (m *Manager) Issue(counterID id.CounterID, branchID id.BranchID, now time.Time) (string, error) {
	claims := operatorClaims{
		CounterID: counterID.String(),
		BranchID:  branchID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign operator token: %w", err)
	}
	return signed, nil
}

// ValidateToken implements middleware.TokenValidator.
func (m *Manager) ValidateToken(tokenString string) (*middleware.OperatorClaims, error) {
	var claims operatorClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return m.signingKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse operator token: %w", err)
	}

	counterID, err := id.ParseCounterID(claims.CounterID)
	if err != nil {
		return nil, errors.New("token has no valid counter identity")
	}
	branchID, err := id.ParseBranchID(claims.BranchID)
	if err != nil {
		return nil, errors.New("token has no valid branch identity")
	}
	return &middleware.OperatorClaims{CounterID: counterID, BranchID: branchID}, nil
}
