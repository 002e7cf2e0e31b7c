package main

import (
	"context"
	"fmt"
	"log"

	"github.com/andrevilar/romaneio-api/internal/config"
	"github.com/andrevilar/romaneio-api/internal/database"
	"github.com/andrevilar/romaneio-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

// Demo accounts, one per role. The MASTER account only ever exists
// through seeding; it cannot be registered.
var seedUsers = []seedUser{
	{name: "Master Admin", email: "master@demo.com", password: "master", role: models.RoleMaster},
	{name: "Op. João", email: "operator@demo.com", password: "operator", role: models.RoleOperator},
	{name: "Cliente Ana", email: "client@demo.com", password: "client", role: models.RoleClient},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.email, err)
		}

		result, err := db.Pool.Exec(ctx, `
			INSERT INTO users (name, email, password_hash, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO NOTHING
		`, u.name, u.email, string(hash), u.role)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.email, err)
		}

		if result.RowsAffected() > 0 {
			fmt.Printf("Seeded %s (%s)\n", u.email, u.role)
		} else {
			fmt.Printf("User %s already exists, skipped\n", u.email)
		}
	}
}
