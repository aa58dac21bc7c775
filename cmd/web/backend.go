package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"petshop/internal/config"
	"petshop/internal/services"
	"petshop/internal/store/firestorestore"
	"petshop/internal/store/memory"
	"petshop/internal/store/mongostore"
	"petshop/internal/store/postgres"
)

type backend struct {
	Carts services.CartStore
	Pets  services.PetStore
	close func() error
}

func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func openBackend(ctx context.Context, cfg config.StoreConfig) (*backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return &backend{
			Carts: memory.NewCartStore(),
			Pets:  memory.NewPetStore(),
		}, nil

	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &backend{
			Carts: postgres.NewCartStore(db),
			Pets:  postgres.NewPetStore(db),
			close: db.Close,
		}, nil

	case config.BackendMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &backend{
			Carts: mongostore.NewCartStore(db),
			Pets:  mongostore.NewPetStore(db),
			close: func() error { return client.Disconnect(context.Background()) },
		}, nil

	case config.BackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("firestore: new client: %w", err)
		}
		return &backend{
			Carts: firestorestore.NewCartStore(client),
			Pets:  memory.NewPetStore(),
			close: client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
