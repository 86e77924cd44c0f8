package main

import (
	"github.com/akila4352/library-service/internal/config"
	"github.com/akila4352/library-service/internal/repository"
	"github.com/akila4352/library-service/internal/service"
	"github.com/akila4352/library-service/pkg/database"
	"github.com/spf13/cobra"
)

type adminFlags struct {
	firstName string
	lastName  string
	email     string
	password  string
}

func newCreateAdminCommand() *cobra.Command {
	var flags adminFlags

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if err := database.Migrate(db); err != nil {
				return err
			}

			hasher, err := service.NewPasswordHasher(cfg.PasswordPepper)
			if err != nil {
				return err
			}
			jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
			if err != nil {
				return err
			}

			authService := service.NewAuthService(repository.NewUserRepository(db), hasher, jwtService, nil)
			admin, err := authService.CreateAdmin(cmd.Context(), flags.firstName, flags.lastName, flags.email, flags.password)
			if err != nil {
				return err
			}
			cmd.Printf("created admin %d (%s)\n", admin.ID, admin.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.firstName, "first-name", "", "admin first name")
	cmd.Flags().StringVar(&flags.lastName, "last-name", "", "admin last name")
	cmd.Flags().StringVar(&flags.email, "email", "", "admin email")
	cmd.Flags().StringVar(&flags.password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("first-name")
	return cmd
}
