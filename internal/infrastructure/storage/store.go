package storage

import (
	"context"
	"fmt"

	"investhistory/internal/config"
	interfaces "investhistory/internal/domain/interfaces"
	"investhistory/internal/infrastructure/storage/mongostore"
	"investhistory/internal/infrastructure/storage/pgstore"
)

// Open connects to the history store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (interfaces.HistoryStore, error) {
	switch cfg.Driver {
	case config.DriverMongo, "":
		repo, err := mongostore.NewRepository(ctx, cfg.MongoURI, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		return repo, nil
	case config.DriverPostgres:
		repo, err := pgstore.NewRepository(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
