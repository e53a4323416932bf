package app

import (
	"context"
	"fmt"

	"kinobot/core/bootstrap"
	"kinobot/core/logger"
	"kinobot/internal/storage"
	"log/slog"
)

// defaultAdminIDs are granted admin rights when no seed list is configured.
var defaultAdminIDs = []int64{6486825926}

// adminSeeder makes sure the configured admin ids exist in the admins table.
func adminSeeder(seed SeedConfig) bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, st bootstrap.Storage) error {
		store, ok := st.(*storage.Storage)
		if !ok {
			return fmt.Errorf("app: admin seeder needs *storage.Storage, got %T", st)
		}

		ids := seed.Admins
		if len(ids) == 0 {
			ids = defaultAdminIDs
		}
		for _, id := range ids {
			if err := store.AddAdmin(ctx, id); err != nil {
				return err
			}
		}

		logger.LogEvent(ctx, logger.SEED, slog.LevelInfo, "admins.seeded",
			slog.Int("count", len(ids)),
		)
		return nil
	})
}
