package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"pantry/internal/config"
	"pantry/internal/db"
	applog "pantry/internal/log"
	"pantry/internal/pantry"
)

var configureDatabase = db.Configure

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	path := "pantry.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := run(context.Background(), path); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("import path must not be empty")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate import file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		return fmt.Errorf("a store url is required to import food items")
	}

	records, err := readRecords(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	database, err := configureDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close(database)

	repo := pantry.NewRepository(database, cfg.Store.ApplicationID)
	imported, err := importRecords(ctx, repo, records)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d food items from %s\n", imported, filepath.Base(path))
	return nil
}

// importRecords creates new codes and overwrites the name and amount of
// existing ones. It stops at the first failing record.
func importRecords(ctx context.Context, repo *pantry.Repository, records []foodRecord) (int, error) {
	imported := 0
	for idx, record := range records {
		if err := upsert(ctx, repo, record); err != nil {
			return imported, fmt.Errorf("record %d (%d %s): %w", idx+1, record.Code, record.Name, err)
		}
		imported++
	}
	return imported, nil
}

func upsert(ctx context.Context, repo *pantry.Repository, record foodRecord) error {
	_, err := repo.FindByCode(ctx, record.Code)
	switch {
	case errors.Is(err, pantry.ErrNotFound):
		_, err = repo.Create(ctx, record.Name, pantry.EditableProps{
			FoodCode:    record.Code,
			AmountLasts: record.Amount,
		})
		return err
	case err != nil:
		return err
	}

	_, err = repo.EditFields(ctx, record.Code,
		pantry.NameEdit{Name: record.Name},
		pantry.AmountEdit{AmountLasts: record.Amount},
	)
	return err
}
