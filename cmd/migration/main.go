package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Applies db/migrations against DATABASE_URL. Kept to the three operations
// the deploy scripts use: up, down N and version.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	dir, err := migrationsDir()
	if err != nil {
		log.Fatal(err)
	}
	sourceURL := "file://" + filepath.ToSlash(dir)

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer closeMigrator(m)

	switch strings.ToLower(strings.TrimSpace(os.Args[1])) {
	case "up":
		reportOutcome(m.Up(), fmt.Sprintf("migrations applied (source=%s)", sourceURL))
	case "down":
		steps, err := downSteps(os.Args[2:])
		if err != nil {
			log.Fatal(err)
		}
		reportOutcome(m.Steps(-steps), fmt.Sprintf("rolled back %d migration(s)", steps))
	case "version":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			fmt.Println("version: none")
		case err != nil:
			log.Fatalf("read version: %v", err)
		default:
			fmt.Printf("version: %d dirty: %t\n", version, dirty)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func reportOutcome(err error, msg string) {
	switch {
	case err == nil:
		log.Print(msg)
	case errors.Is(err, migrate.ErrNoChange):
		log.Print("no migration changes")
	default:
		log.Fatal(err)
	}
}

func downSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("down steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}

// migrationsDir prefers an explicit MIGRATIONS_DIR, then the repo-relative
// and container paths the binary is deployed with.
func migrationsDir() (string, error) {
	for _, candidate := range []string{os.Getenv("MIGRATIONS_DIR"), "./db/migrations", "/app/db/migrations"} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("close migration source: %v", srcErr)
	}
	if dbErr != nil {
		log.Printf("close migration db: %v", dbErr)
	}
}

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down [steps]|version>\n", name)
}
