package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    profile_image_url TEXT,
    fullname TEXT,
    bio TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    date TIMESTAMPTZ NOT NULL,
    type TEXT NOT NULL,
    budget DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS trip_photos (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    content_type TEXT NOT NULL,
    data BYTEA NOT NULL
);

CREATE INDEX IF NOT EXISTS trip_photos_trip_idx ON trip_photos(trip_id, position);
CREATE INDEX IF NOT EXISTS trips_owner_idx ON trips(owner_id);

CREATE TABLE IF NOT EXISTS app_settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}

	// Columns introduced after the first trips schema shipped.
	alters := `
DO $$ BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='trips' AND column_name='expenses'
    ) THEN
        ALTER TABLE trips ADD COLUMN expenses DOUBLE PRECISION NOT NULL DEFAULT 0;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='trips' AND column_name='latitude'
    ) THEN
        ALTER TABLE trips ADD COLUMN latitude DOUBLE PRECISION;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='trips' AND column_name='longitude'
    ) THEN
        ALTER TABLE trips ADD COLUMN longitude DOUBLE PRECISION;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='trips' AND column_name='place_name'
    ) THEN
        ALTER TABLE trips ADD COLUMN place_name TEXT;
    END IF;
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='trips' AND column_name='reminder_id'
    ) THEN
        ALTER TABLE trips ADD COLUMN reminder_id TEXT;
    END IF;
END $$;`
	_, err := db.ExecContext(ctx, alters)
	return err
}
