// Package main seeds a development database with bottle types, a driver and
// an open supply order, so that a return order can be settled right away.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	appctx "github.com/medtraie/Gaztesto-sub001/internal/core/context"
	"github.com/medtraie/Gaztesto-sub001/internal/core/numerator"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/auth"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/bottletype"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/driver"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/config"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres/document_repo"
	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
	pkgnumerator "github.com/medtraie/Gaztesto-sub001/pkg/numerator"
)

type bottleSeed struct {
	name      string
	price     string
	remaining types.Quantity
	// out is the full quantity loaded on the demo truck.
	out types.Quantity
}

var bottles = []bottleSeed{
	{"3KG", "10", 400, 30},
	{"6KG", "20", 300, 20},
	{"12KG", "50", 500, 40},
	{"34KG", "150", 80, 5},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	var so *supply_order.SupplyOrder
	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		so, err = seedDemoData(ctx, txManager)
		return err
	})
	if err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}
	log.Infow("supply order ready", "id", so.ID, "number", so.Number, "lines", len(so.Lines))

	if cfg.JWT.Secret != "" {
		jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
		jwtConfig.Issuer = cfg.JWT.Issuer
		token, expiresAt, err := auth.NewJWTService(jwtConfig).GenerateAccessToken(appctx.UserContext{
			UserID: "seed-operator",
			Name:   "Seed Operator",
			Roles:  []string{auth.RoleOperator},
		})
		if err != nil {
			log.Fatalw("failed to sign operator token", "error", err)
		}
		log.Infow("operator token", "token", token, "expires_at", expiresAt)
	}

	log.Info("seeding completed successfully")
}

// seedDemoData creates the catalog rows once and a fresh supply order on every run.
func seedDemoData(ctx context.Context, txm *postgres.TxManager) (*supply_order.SupplyOrder, error) {
	bottleRepo := catalog_repo.NewBottleTypeRepo(txm)
	driverRepo := catalog_repo.NewDriverRepo(txm)
	orderRepo := document_repo.NewSupplyOrderRepo(txm)

	existing, err := bottleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bottle types: %w", err)
	}
	byName := make(map[string]*bottletype.BottleType, len(existing))
	for _, b := range existing {
		byName[b.Name] = b
	}

	for _, s := range bottles {
		if _, ok := byName[s.name]; ok {
			continue
		}
		b := bottletype.NewBottleType("BT-"+s.name, s.name, types.MustMoney(s.price))
		b.RemainingQuantity = s.remaining
		if err := b.Validate(ctx); err != nil {
			return nil, err
		}
		if err := bottleRepo.Create(ctx, b); err != nil {
			return nil, fmt.Errorf("create bottle type %s: %w", s.name, err)
		}
		byName[s.name] = b
		logger.Info(ctx, "bottle type created", "name", s.name, "price", s.price)
	}

	d := driver.NewDriver(fmt.Sprintf("DRV-%d", time.Now().Unix()), "Demo Driver")
	if err := driverRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}

	number, err := pkgnumerator.New(txm.ContextQuerier()).GetNextNumber(ctx,
		numerator.DefaultConfig("BS"), numerator.DefaultOptions(), time.Now())
	if err != nil {
		return nil, fmt.Errorf("number supply order: %w", err)
	}

	so := supply_order.NewSupplyOrder(number, d.ID)
	for _, s := range bottles {
		b := byName[s.name]
		so.AddLine(b.ID, b.Name, s.out/2, s.out, b.UnitPrice)

		remaining := b.RemainingQuantity - s.out
		distributed := b.DistributedQuantity + s.out
		if _, err := bottleRepo.UpdateFields(ctx, b.ID, bottletype.Fields{
			RemainingQuantity:   &remaining,
			DistributedQuantity: &distributed,
		}); err != nil {
			return nil, fmt.Errorf("load truck with %s: %w", b.Name, err)
		}
	}
	if err := so.Validate(ctx); err != nil {
		return nil, err
	}
	if err := orderRepo.Create(ctx, so); err != nil {
		return nil, fmt.Errorf("create supply order: %w", err)
	}
	return so, nil
}
