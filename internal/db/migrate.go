package db

import (
	"github.com/dferraz/mercado-backend/internal/app/model"
	"github.com/dferraz/mercado-backend/pkg/logger"
)

// Migrate creates the schema at process start if absent
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.CartItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
