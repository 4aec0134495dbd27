package ui

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordChecker verifies the admin password.
type PasswordChecker interface {
	Check(password string) bool
	Configured() bool
}

type passwordChecker struct {
	hash  []byte
	plain []byte
}

// NewPasswordChecker accepts either a bcrypt hash ("$2a$...", "$2b$...") or a
// plain secret. An empty secret rejects every attempt.
func NewPasswordChecker(secret string) PasswordChecker {
	secret = strings.TrimSpace(secret)
	if strings.HasPrefix(secret, "$2") {
		return &passwordChecker{hash: []byte(secret)}
	}
	if secret == "" {
		return &passwordChecker{}
	}
	return &passwordChecker{plain: []byte(secret)}
}

func (p *passwordChecker) Configured() bool {
	return len(p.hash) > 0 || len(p.plain) > 0
}

func (p *passwordChecker) Check(password string) bool {
	switch {
	case password == "":
		return false
	case len(p.hash) > 0:
		return bcrypt.CompareHashAndPassword(p.hash, []byte(password)) == nil
	case len(p.plain) > 0:
		return subtle.ConstantTimeCompare(p.plain, []byte(password)) == 1
	default:
		return false
	}
}
