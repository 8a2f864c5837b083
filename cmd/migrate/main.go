package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appfinance "github.com/Ethics03/shiv-odoo/internal/application/finance"
	"github.com/Ethics03/shiv-odoo/internal/domain/identity"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/config"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/logger"
	"github.com/Ethics03/shiv-odoo/internal/infrastructure/persistence"
)

// migrate applies the schema, seeds the system user the callback path
// falls back to, and creates the fixed accounts posting depends on.
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.Must(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync()

	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("schema migrated")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos := persistence.NewRepositorySet(db.DB)
	uow := persistence.NewUnitOfWork(db.DB)

	systemID, err := seedSystemUser(ctx, repos)
	if err != nil {
		log.Fatal("seeding system user failed", zap.Error(err))
	}
	log.Info("system user ready", zap.String("user_id", systemID.String()))

	ledger := appfinance.NewLedgerService(uow, log)
	result, err := ledger.EnsureRequiredAccounts(ctx, systemID)
	if err != nil {
		log.Fatal("seeding required accounts failed", zap.Error(err))
	}
	for _, account := range result.Created {
		log.Info("account created", zap.String("code", account.Code))
	}
	log.Info("migration complete",
		zap.Int("accounts_created", len(result.Created)),
		zap.Int("accounts_existing", len(result.Existing)))
}

func seedSystemUser(ctx context.Context, repos *persistence.RepositorySet) (uuid.UUID, error) {
	existing, err := repos.Users().FindByEmail(ctx, identity.SystemUserEmail)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	system, err := identity.NewUser(identity.SystemUserEmail, "System", identity.RoleSystem)
	if err != nil {
		return uuid.Nil, err
	}
	if err := repos.Users().Save(ctx, system); err != nil {
		return uuid.Nil, err
	}
	return system.ID, nil
}
