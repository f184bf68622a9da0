package seeder

import (
	"context"

	"hiresight/internal/database"
)

// Seeder inserts reference rows. Implementations must be idempotent since
// they run on every boot when auto-migrate is on.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
