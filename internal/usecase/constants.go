package usecase

import "time"

const (
	// DefaultStatsCacheTTL is how long per-scope record stats are cached
	DefaultStatsCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// systemIdentity is recorded in audit logs when no identity is connected
	systemIdentity = "anonymous"
)
