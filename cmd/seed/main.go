// Package main provides a CLI tool that creates the schema and seeds the
// database with the location directory and an admin account.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	appctx "meditrack/internal/core/context"
	"meditrack/internal/core/id"
	"meditrack/internal/infrastructure/storage/postgres"
	"meditrack/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS medication (
	id UUID PRIMARY KEY,
	code INTEGER NOT NULL,
	batch TEXT NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	expiry DATE NOT NULL,
	requires_prescription BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_medication_code ON medication (code);
CREATE INDEX IF NOT EXISTS idx_medication_name ON medication (name);

CREATE TABLE IF NOT EXISTS location (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	neighborhood TEXT NOT NULL DEFAULT '',
	street TEXT NOT NULL DEFAULT '',
	number TEXT NOT NULL DEFAULT '',
	bus_lines TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	latitude NUMERIC(9,6),
	longitude NUMERIC(9,6)
);

CREATE TABLE IF NOT EXISTS app_user (
	id UUID PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	cpf TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	location_id UUID REFERENCES location (id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS stock_entry (
	medication_id UUID NOT NULL REFERENCES medication (id),
	location_id UUID NOT NULL REFERENCES location (id),
	quantity INTEGER NOT NULL CHECK (quantity >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (medication_id, location_id)
);

CREATE TABLE IF NOT EXISTS stock_audit (
	id UUID PRIMARY KEY,
	location_id UUID NOT NULL REFERENCES location (id),
	employee_id UUID NOT NULL REFERENCES app_user (id),
	uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_stock_audit_location ON stock_audit (location_id, uploaded_at DESC);

CREATE TABLE IF NOT EXISTS favorite (
	user_id UUID NOT NULL REFERENCES app_user (id),
	medication_id UUID NOT NULL REFERENCES medication (id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, medication_id)
);
`

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if _, err := pool.Pool.Exec(ctx, schema); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema created")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if path := os.Getenv("SEED_LOCATIONS_FILE"); path != "" {
		loaded, err := seedLocations(ctx, pool, path)
		if err != nil {
			log.Fatalw("failed to seed locations", "error", err, "file", path)
		}
		log.Infow("locations loaded", "count", loaded, "file", path)
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@meditrack.local"
	}

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM app_user WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO app_user (id, full_name, email, cpf, password_hash, role, created_at)
		VALUES ($1, 'System Admin', $2, '00000000000', $3, $4, $5)
	`, userID, adminEmail, string(passwordHash), appctx.RoleAdmin, time.Now())
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

// seedLocations loads the semicolon-separated directory file produced by the
// offline geocoding utility. Rows without coordinates load with NULL lat/lon.
func seedLocations(ctx context.Context, pool *postgres.Pool, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open locations file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	loaded := 0
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return loaded, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(row) < 6 {
			return loaded, fmt.Errorf("line %d: expected at least 6 fields, got %d", line, len(row))
		}

		var lat, lon *decimal.Decimal
		if len(row) >= 8 {
			lat = parseCoordinate(row[6])
			lon = parseCoordinate(row[7])
		}

		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO location (id, name, neighborhood, street, number, bus_lines, phone, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, id.New(), row[0], row[1], row[2], row[3], row[4], row[5], lat, lon)
		if err != nil {
			return loaded, fmt.Errorf("insert location %q: %w", row[0], err)
		}
		loaded++
	}

	return loaded, nil
}

func parseCoordinate(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
