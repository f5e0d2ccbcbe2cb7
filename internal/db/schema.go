package db

import "context"

// EnsureSchema creates the catalog tables if they do not exist yet.
// The expires_at index on revoked_tokens keeps the reaper delete and the
// membership check cheap as the blacklist grows.
func (db *Postgres) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin', 'super_admin')),
			last_login TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS users_role_idx ON users(role)`,
		`
		CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			isbn TEXT UNIQUE,
			category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
			description TEXT,
			published_year INT,
			pages INT,
			available_copies INT NOT NULL DEFAULT 1,
			total_copies INT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS books_title_idx ON books(title)`,
		`CREATE INDEX IF NOT EXISTS books_author_idx ON books(author)`,
		`CREATE INDEX IF NOT EXISTS books_category_idx ON books(category_id)`,
		`
		CREATE TABLE IF NOT EXISTS revoked_tokens (
			id BIGSERIAL PRIMARY KEY,
			token_hash TEXT NOT NULL UNIQUE,
			user_id BIGINT,
			expires_at TIMESTAMPTZ NOT NULL,
			revoked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			reason TEXT NOT NULL DEFAULT 'logout'
		)
		`,
		`CREATE INDEX IF NOT EXISTS revoked_tokens_expires_at_idx ON revoked_tokens(expires_at)`,
		`CREATE INDEX IF NOT EXISTS revoked_tokens_user_id_idx ON revoked_tokens(user_id)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
