package initializers

import (
	"database/sql"
	"log"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
)

var DB *goqu.Database

func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	DB = goqu.New("postgres", db)

	if err := migrate(db); err != nil {
		log.Fatal(err)
	}
}

// migrate applies the schema. Statements are idempotent so this is safe to
// run on every startup.
func migrate(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password TEXT NOT NULL,
    email TEXT NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_login TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS prayer_requests (
    id SERIAL PRIMARY KEY,
    user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
    type TEXT NOT NULL CHECK (type IN ('public', 'staff', 'pastor')),
    original_content TEXT NOT NULL,
    sanitized_content TEXT,
    ai_flagged BOOLEAN NOT NULL DEFAULT false,
    ai_flag_reason TEXT,
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    is_approved BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_prayer_requests_dates ON prayer_requests (start_date, end_date);

CREATE TABLE IF NOT EXISTS prayer_counts (
    week_number INTEGER NOT NULL,
    year INTEGER NOT NULL,
    count INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (week_number, year)
);

CREATE TABLE IF NOT EXISTS revoked_token (
    token TEXT PRIMARY KEY,
    expires_at TIMESTAMPTZ NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}
