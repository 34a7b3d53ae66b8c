package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Snapshot interchange: an engine can be bootstrapped from an SQLite catalog
// file and can export its current state to a fresh one. The file is read once
// at load and never written to during a session; in-memory state stays the
// single source of truth.

const snapshotDateLayout = "2006-01-02"

const snapshotSchemaVersion = 1

func applySnapshotSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            isbn TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            quantity INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS members (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS loans (
            member_id TEXT NOT NULL REFERENCES members(id),
            isbn TEXT NOT NULL REFERENCES books(isbn),
            due_date TEXT NOT NULL,
            PRIMARY KEY (member_id, isbn)
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply snapshot schema: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, snapshotSchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// ExportSnapshot writes the catalog, members, and open loans to a new SQLite
// file at path. An existing file is replaced.
func (l *Library) ExportSnapshot(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=1", path))
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if err := applySnapshotSchema(db); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for b := range l.inventory.All() {
		if _, err := tx.Exec(`INSERT INTO books(isbn,title,author,quantity) VALUES(?,?,?,?)`,
			b.ISBN, b.Title, b.Author, b.Quantity); err != nil {
			return fmt.Errorf("export book %s: %w", b.ISBN, err)
		}
	}
	for m := range l.members.All() {
		if _, err := tx.Exec(`INSERT INTO members(id,name,email) VALUES(?,?,?)`,
			m.ID, m.Name, m.Email); err != nil {
			return fmt.Errorf("export member %s: %w", m.ID, err)
		}
		for isbn, due := range m.Borrowed {
			if _, err := tx.Exec(`INSERT INTO loans(member_id,isbn,due_date) VALUES(?,?,?)`,
				m.ID, isbn, due.Format(snapshotDateLayout)); err != nil {
				return fmt.Errorf("export loan %s/%s: %w", m.ID, isbn, err)
			}
		}
	}
	return tx.Commit()
}

// LoadSnapshot builds a fresh engine from the SQLite catalog file at path.
// Loans are restored with their recorded due dates and do not appear in the
// action log, so a freshly loaded engine has nothing to undo.
func LoadSnapshot(path string) (*Library, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	l := NewLibrary()

	if err := loadBooks(db, l); err != nil {
		return nil, err
	}
	if err := loadMembers(db, l); err != nil {
		return nil, err
	}
	if err := loadLoans(db, l); err != nil {
		return nil, err
	}
	return l, nil
}

func loadBooks(db *sql.DB, l *Library) error {
	rows, err := db.Query(`SELECT isbn,title,author,quantity FROM books`)
	if err != nil {
		return fmt.Errorf("read books: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var isbn, title, author string
		var quantity int
		if err := rows.Scan(&isbn, &title, &author, &quantity); err != nil {
			return err
		}
		if err := l.AddBook(isbn, title, author, quantity); err != nil {
			return fmt.Errorf("load book %s: %w", isbn, err)
		}
	}
	return rows.Err()
}

func loadMembers(db *sql.DB, l *Library) error {
	rows, err := db.Query(`SELECT id,name,email FROM members`)
	if err != nil {
		return fmt.Errorf("read members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name, email string
		if err := rows.Scan(&id, &name, &email); err != nil {
			return err
		}
		if _, err := l.RegisterMember(id, name, email); err != nil {
			return fmt.Errorf("load member %s: %w", id, err)
		}
	}
	return rows.Err()
}

func loadLoans(db *sql.DB, l *Library) error {
	rows, err := db.Query(`SELECT member_id,isbn,due_date FROM loans`)
	if err != nil {
		return fmt.Errorf("read loans: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var memberID, isbn, dueStr string
		if err := rows.Scan(&memberID, &isbn, &dueStr); err != nil {
			return err
		}
		due, err := time.ParseInLocation(snapshotDateLayout, dueStr, time.UTC)
		if err != nil {
			return fmt.Errorf("loan %s/%s due date %q: %w", memberID, isbn, dueStr, err)
		}
		if err := l.restoreLoan(memberID, isbn, due); err != nil {
			return err
		}
	}
	return rows.Err()
}

// restoreLoan re-establishes a hold from a snapshot without logging it.
func (l *Library) restoreLoan(memberID, isbn string, due time.Time) error {
	member, ok := l.members.Find(memberID)
	if !ok {
		return fmt.Errorf("loan references member %s: %w", memberID, ErrInconsistent)
	}
	book, ok := l.inventory.Find(isbn)
	if !ok {
		return fmt.Errorf("loan references book %s: %w", isbn, ErrInconsistent)
	}
	if err := l.lendAgain(member, book, due); err != nil {
		return fmt.Errorf("restore loan %s/%s: %w", memberID, isbn, err)
	}
	return nil
}
