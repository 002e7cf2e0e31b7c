package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		display_name VARCHAR(255),
		photo_base64 TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Schema singleton: one row keyed 'default' holding the shared headers.
	`CREATE TABLE IF NOT EXISTS table_config (
		id VARCHAR(50) PRIMARY KEY,
		headers TEXT[] NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// owner_id is deliberately not a foreign key: an order whose contact
	// email matches no user carries owner_id = '' and stays invisible to
	// client accounts. Deleting a user does not cascade to orders.
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id VARCHAR(64) NOT NULL DEFAULT '',
		owner_email VARCHAR(255) NOT NULL,
		owner_display_name VARCHAR(255),
		owner_photo_base64 TEXT,
		columns TEXT[] NOT NULL DEFAULT '{}',
		status VARCHAR(20) NOT NULL DEFAULT 'PENDENTE',
		attachments JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Write-only audit trail of reset requests.
	`CREATE TABLE IF NOT EXISTS password_resets (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) NOT NULL,
		requested_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Outbound notification queue consumed by the mail worker.
	`CREATE TABLE IF NOT EXISTS mail_queue (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		recipient VARCHAR(255) NOT NULL,
		subject VARCHAR(500) NOT NULL,
		html TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_orders_owner_id ON orders(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_owner_email ON orders(owner_email)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_mail_queue_created_at ON mail_queue(created_at)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
