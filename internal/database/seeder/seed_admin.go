package seeder

import (
	"context"
	"errors"
	"strings"

	"hiresight/internal/database"
	"hiresight/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminSeeder creates the single admin account. Admin cannot be chosen at
// registration, so this is the only way one comes to exist. It does nothing
// when no credentials are configured and never touches an existing row.
type AdminSeeder struct {
	DisplayName string
	Email       string
	Password    string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if email == "" {
		return nil
	}
	if strings.TrimSpace(s.Password) == "" {
		return errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "password_hash", "role"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(s.DisplayName)
	if name == "" {
		name = "Administrator"
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.New(), name, email, string(hash), string(user.RoleAdmin),
	)
	return err
}
