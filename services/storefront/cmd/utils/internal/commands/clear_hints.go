package commands

import (
	"context"
	"fmt"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/dinner/services/storefront/internal/mongo"
)

// ClearHints removes every delivery-time hint from the Mongo hint store.
func ClearHints(ctx context.Context, config *aqm.Config, logger aqm.Logger) error {
	logger.Info("Clearing delivery time hints...")

	repo := mongo.NewHintRepo(mongo.NewBaseRepo(config, logger), 0)
	if err := repo.Start(ctx); err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer repo.Stop(ctx)

	count, err := repo.Clear(ctx)
	if err != nil {
		return err
	}
	logger.Info("Deleted delivery time hints", "count", count)
	return nil
}
