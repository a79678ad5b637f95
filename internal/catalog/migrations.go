package catalog

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest catalog schema version
const SchemaVersion = 2

// initializeDatabase creates or upgrades the catalog schema
func initializeDatabase(db *sql.DB) error {
	migrationsTable := `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(migrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&current); err != nil {
		return fmt.Errorf("failed to check migration version: %w", err)
	}

	if current < 1 {
		if err := applyMigration1(db); err != nil {
			return fmt.Errorf("failed to apply migration 1: %w", err)
		}
	}
	if current < 2 {
		if err := applyMigration2(db); err != nil {
			return fmt.Errorf("failed to apply migration 2: %w", err)
		}
	}
	return nil
}

// applyMigration1 creates the books table
func applyMigration1(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`CREATE TABLE books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT NOT NULL DEFAULT '',
			published_date TEXT NOT NULL DEFAULT '',
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		"CREATE INDEX idx_books_title ON books(title COLLATE NOCASE);",
		"INSERT INTO migrations (version) VALUES (1);",
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// applyMigration2 adds search_key, the Unicode-folded title and authors.
// SQLite's lower() and LIKE only fold ASCII, so folding happens in Go.
func applyMigration2(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("ALTER TABLE books ADD COLUMN search_key TEXT NOT NULL DEFAULT '';"); err != nil {
		return err
	}

	rows, err := tx.Query("SELECT id, title, authors FROM books")
	if err != nil {
		return err
	}
	keys := map[string]string{}
	for rows.Next() {
		var id, title, authors string
		if err := rows.Scan(&id, &title, &authors); err != nil {
			rows.Close()
			return err
		}
		keys[id] = searchKey(title, authors)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for id, key := range keys {
		if _, err := tx.Exec("UPDATE books SET search_key = ? WHERE id = ?", key, id); err != nil {
			return err
		}
	}

	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (2);"); err != nil {
		return err
	}
	return tx.Commit()
}
