package main

import (
	"fmt"
	"os"
	"time"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/config"
	"github.com/2beens/fitdash/internal/db"
	"github.com/2beens/fitdash/internal/identity"
	"github.com/2beens/fitdash/internal/users"
	"github.com/2beens/fitdash/internal/workouts"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagEnv        string
	flagConfigPath string
	flagPrincipal  string
	flagEmail      string
	flagVerbose    bool

	cfg    *config.Config
	loc    *time.Location
	dbPool *pgxpool.Pool
)

var rootCmd = &cobra.Command{
	Use:   "fitdashctl",
	Short: "Inspect and maintain the fitdash database",
	Long: `fitdashctl talks to the fitdash database directly, using the same config
file as the service.

  fitdashctl migrate                              # apply the schema
  fitdashctl whoami --principal user_2abc         # resolve (and create) the user
  fitdashctl workouts 2024-05-01 --principal ...  # workouts of a day
  fitdashctl stats 2024-05-01 --principal ...     # totals of a day

The principal defaults to FITDASH_PRINCIPAL_ID, the email to FITDASH_PRINCIPAL_EMAIL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}

		var err error
		cfg, err = config.Load(flagEnv, flagConfigPath)
		if err != nil {
			return err
		}
		loc, err = cfg.Location()
		if err != nil {
			return err
		}

		secrets, err := config.LoadSecrets(cmd.Context())
		if err != nil {
			return err
		}

		dbPool, err = db.NewDBPool(cmd.Context(), db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: secrets.DBPassword,
		})
		if err != nil {
			return fmt.Errorf("db pool: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbPool != nil {
			dbPool.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "./config.toml", "path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagPrincipal, "principal", os.Getenv("FITDASH_PRINCIPAL_ID"), "identity provider user id")
	rootCmd.PersistentFlags().StringVar(&flagEmail, "email", os.Getenv("FITDASH_PRINCIPAL_EMAIL"), "email used when the user is created")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(migrateCmd, whoamiCmd, workoutsCmd, statsCmd)
}

func newResolver() *identity.Resolver {
	return identity.NewResolver(
		auth.NewStaticProvider(flagPrincipal, flagEmail, nil, nil),
		users.NewRepo(dbPool),
		nil,
	)
}

func newService() *workouts.Service {
	return workouts.NewService(newResolver(), workouts.NewRepo(dbPool), loc, nil)
}
