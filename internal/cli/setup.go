package cli

import (
	"fmt"
	"log/slog"

	"github.com/eshaffer321/pos-register/internal/application/register"
	"github.com/eshaffer321/pos-register/internal/domain/cart"
	"github.com/eshaffer321/pos-register/internal/domain/money"
	"github.com/eshaffer321/pos-register/internal/infrastructure/config"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// OpenRegister opens the database named in cfg, saves the configured
// catalog and creates the register service over it. logger must not carry
// a system attribute; the storage and register loggers get their own.
// The caller closes the returned storage.
func OpenRegister(cfg *config.Config, logger *slog.Logger, notifier cart.Notifier) (*register.Service, *storage.Storage, error) {
	rate, err := money.ParseRate(cfg.Register.DiscountRate)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid discount rate: %w", err)
	}

	store, err := storage.NewStorageWithLogger(cfg.Storage.DatabasePath, logger.With("system", "storage"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", cfg.Storage.DatabasePath, err)
	}

	if err := seedCatalog(store, cfg.Catalog); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	svc := register.NewService(store, logger.With("system", "register"), register.Options{
		DiscountRate:   &rate,
		CurrencySymbol: cfg.Register.CurrencySymbol,
		PersistDraft:   cfg.Register.PersistDraft,
		Notifier:       notifier,
	})
	return svc, store, nil
}

func seedCatalog(repo storage.ProductRepository, catalog []config.CatalogProduct) error {
	for _, p := range catalog {
		price, err := money.ParseAmount(p.Price)
		if err != nil {
			return fmt.Errorf("catalog product %q: %w", p.Name, err)
		}
		product := &storage.Product{
			Name:      p.Name,
			Category:  p.Category,
			Price:     price,
			Available: p.IsAvailable(),
		}
		if err := repo.SaveProduct(product); err != nil {
			return err
		}
	}
	return nil
}
