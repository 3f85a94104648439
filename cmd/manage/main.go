// manage tareas de administración de Uranus Group: migraciones, datos iniciales y superusuario.
//
// Uso:
//
//	go run ./cmd/manage migrate up
//	go run ./cmd/manage migrate down --steps 1
//	go run ./cmd/manage seed
//	go run ./cmd/manage createsuperuser --username admin --email admin@uranusgroup.com --password ...
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/uranusgroup/uranus-web/internal/infrastructure/postgres"
	"github.com/uranusgroup/uranus-web/pkg/config"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "manage",
	Short:         "Administración de Uranus Group (migraciones, seed, superusuario)",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createSuperuserCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env configuración y logger compartidos por los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) pool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, e.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}
