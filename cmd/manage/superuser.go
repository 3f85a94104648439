package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/infrastructure/postgres"
)

var superuser struct {
	username string
	email    string
	password string
}

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Crea una cuenta admin activa y verificada",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := e.pool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		users := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
		u, err := users.CreateSuperuser(ctx, superuser.username, superuser.email, superuser.password)
		if err != nil {
			return fmt.Errorf("createsuperuser: %w", err)
		}
		e.log.Info().Str("user_id", u.ID).Str("username", u.Username).Msg("superusuario creado")
		return nil
	},
}

func init() {
	f := createSuperuserCmd.Flags()
	f.StringVar(&superuser.username, "username", "", "nombre de usuario")
	f.StringVar(&superuser.email, "email", "", "correo electrónico")
	f.StringVar(&superuser.password, "password", "", "contraseña")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("password")
}
