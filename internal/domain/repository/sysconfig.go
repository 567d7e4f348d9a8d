package repository

import "context"

// SystemConfigRepository reads operator-tunable settings.
type SystemConfigRepository interface {
	// GetFloat returns nil when the key is absent or not numeric.
	GetFloat(ctx context.Context, key string) (*float64, error)
}
