package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// RunMigrations applies every .sql file in lexical order. When dir is
// set and exists it overrides the embedded schema, which lets
// deployments patch the database without rebuilding the binary.
func RunMigrations(sqlDB *sql.DB, dir string) error {
	names, read, err := migrationSource(dir)
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := read(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if len(data) == 0 {
			continue
		}
		if _, err := sqlDB.Exec(string(data)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

func migrationSource(dir string) ([]string, func(string) ([]byte, error), error) {
	if dir != "" {
		entries, err := os.ReadDir(dir)
		switch {
		case err == nil:
			return sqlNames(entries), func(name string) ([]byte, error) {
				return os.ReadFile(filepath.Join(dir, name))
			}, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, nil, fmt.Errorf("read migrations dir: %w", err)
		}
	}
	entries, err := embeddedMigrations.ReadDir("migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	return sqlNames(entries), func(name string) ([]byte, error) {
		return embeddedMigrations.ReadFile(filepath.Join("migrations", name))
	}, nil
}

func sqlNames(entries []os.DirEntry) []string {
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}
