package seeder

import "hiresight/internal/config"

// Defaults returns the seeders that run after migrations.
func Defaults(cfg config.Config) []Seeder {
	return []Seeder{
		AdminSeeder{
			DisplayName: cfg.Admin.Name,
			Email:       cfg.Admin.Email,
			Password:    cfg.Admin.Password,
		},
	}
}
