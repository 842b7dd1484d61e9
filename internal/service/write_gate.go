package service

import (
	"crypto/subtle"

	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
)

// APIKeyHeader carries the write credential.
const APIKeyHeader = "X-API-Key"

// ErrGateMisconfigured is returned for every write when no secret is configured.
var ErrGateMisconfigured = apperrors.Internal("write credential is not configured")

// ErrInvalidAPIKey is returned when the presented credential is missing or wrong.
var ErrInvalidAPIKey = apperrors.Unauthorized("missing or invalid API key")

// WriteGate admits mutating requests that present the shared secret.
type WriteGate struct {
	secret []byte
}

// NewWriteGate constructs a gate for the configured secret.
func NewWriteGate(secret string) *WriteGate {
	return &WriteGate{secret: []byte(secret)}
}

// Check returns nil when presented matches the configured secret.
func (g *WriteGate) Check(presented string) error {
	if g == nil || len(g.secret) == 0 {
		return ErrGateMisconfigured
	}
	if presented == "" || subtle.ConstantTimeCompare([]byte(presented), g.secret) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}
