package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pantry/internal/db"
	applog "pantry/internal/log"
	"pantry/models"
)

// Open returns an empty, migrated in-memory sqlite database. Every call gets
// its own database so parallel callers never share rows.
func Open(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "opening in-memory database")
	dsn := fmt.Sprintf("file:pantry-%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}
	return database, nil
}

// New returns an in-memory sqlite database seeded with a few pantry items
// owned by applicationID.
func New(ctx context.Context, applicationID string) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database", "applicationId", applicationID)

	database, err := Open(ctx)
	if err != nil {
		return nil, err
	}

	if err := seed(ctx, database, applicationID); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB, applicationID string) error {
	applog.Debug(ctx, "seeding mock database")

	bought := time.Now().UTC().Add(-48 * time.Hour)

	items := []models.FoodItem{
		{
			ApplicationID: applicationID,
			Name:          "Milk",
			FoodCode:      101,
			AmountLasts:   2,
		},
		{
			ApplicationID: applicationID,
			Name:          "Eggs",
			FoodCode:      102,
			AmountLasts:   10,
			Edited: []models.EditEvent{
				{Date: bought, Amount: 12, Method: models.EditMethodIncrement},
				{Date: bought.Add(24 * time.Hour), Amount: 2, Method: models.EditMethodDecrement},
			},
		},
		{
			ApplicationID: applicationID,
			Name:          "Rice",
			FoodCode:      103,
			AmountLasts:   1.5,
		},
	}

	for idx := range items {
		if err := database.WithContext(ctx).Create(&items[idx]).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded", "items", len(items))
	return nil
}
