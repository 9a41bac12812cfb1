package config

import (
	"crypto/subtle"
	"errors"
)

// ErrBadToken means the presented token does not grant admin access.
var ErrBadToken = errors.New("invalid token")

// CheckWebToken ensures a token presented on an administrative endpoint
// matches the configured one. An unset or too short WebToken disables admin
// access entirely rather than allowing everything through.
func (c *Config) CheckWebToken(token string) error {
	if len(c.WebToken) < 32 {
		return errors.New("web token must be ≥ 32 chars")
	}

	if subtle.ConstantTimeCompare([]byte(c.WebToken), []byte(token)) != 1 {
		return ErrBadToken
	}

	return nil
}
