package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-showtime-service/internal/auth"
	"github.com/iliyamo/cinema-showtime-service/internal/config"
	"github.com/iliyamo/cinema-showtime-service/internal/database"
	"github.com/iliyamo/cinema-showtime-service/internal/logger"
	"github.com/iliyamo/cinema-showtime-service/internal/repository"
	"github.com/iliyamo/cinema-showtime-service/internal/utils"
)

var seed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Apply the embedded schema.  With --seed the demo catalog is inserted, and
when AUTH_PROVIDER=db the built-in user and admin accounts are created too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		log := logger.Get()

		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.WithField("statements", len(database.Statements())).Info("Schema applied")
		if !seed {
			return nil
		}

		n, err := database.Seed(ctx, db, database.DemoCatalog)
		if err != nil {
			return err
		}
		log.WithField("inserted", n).Info("Catalog seeded")

		if cfg.Auth.Provider == "db" {
			return seedAccounts(ctx, repository.NewUserRepo(db), cfg)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seed, "seed", false, "insert the demo catalog")
}

// seedAccounts stores the built-in accounts in the users table.  Existing
// names are left untouched.
func seedAccounts(ctx context.Context, users *repository.UserRepo, cfg config.Config) error {
	for _, a := range auth.DefaultAccounts(cfg.Auth.UserPassword, cfg.Auth.AdminPassword) {
		hash, err := utils.HashPassword(a.Password, cfg.BcryptCost)
		if err != nil {
			return err
		}
		if _, err := users.Create(ctx, a.Username, hash, a.Roles); err != nil {
			if errors.Is(err, repository.ErrUsernameExists) {
				continue
			}
			return fmt.Errorf("create %s: %w", a.Username, err)
		}
		logger.Get().WithField("username", a.Username).Info("Account created")
	}
	return nil
}
