package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uranusgroup/uranus-web/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migraciones del esquema (embebidas en el binario)",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica todas las migraciones pendientes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(func(m *postgres.Migrator) error { return m.Up() })
	},
}

var migrateDownSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte migraciones (--steps 0 revierte todas)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(func(m *postgres.Migrator) error { return m.Down(migrateDownSteps) })
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión actual del esquema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(func(m *postgres.Migrator) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "número de migraciones a revertir")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func withMigrator(fn func(m *postgres.Migrator) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	m, err := postgres.NewMigrator(e.cfg.DB.ConnectionString(), e.log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			e.log.Warn().Err(cerr).Msg("migrate: cierre")
		}
	}()
	return fn(m)
}
