package main

import (
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/secaware/internal/bootstrap"
	"github.com/dropDatabas3/secaware/internal/config"
	"github.com/dropDatabas3/secaware/internal/security/password"
	"github.com/dropDatabas3/secaware/internal/store/pg"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Gestión de admins",
	}
	cmd.AddCommand(adminCreateCmd())
	return cmd
}

func adminCreateCmd() *cobra.Command {
	var adminEmail, adminName, adminPass string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un admin (interactivo si faltan flags)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := pg.Connect(ctx, pg.Config{
				DSN:          cfg.Storage.DSN,
				MaxOpenConns: cfg.Storage.MaxOpenConns,
				MaxIdleConns: cfg.Storage.MaxIdleConns,
			})
			if err != nil {
				return err
			}
			defer store.Close()

			hasher := password.NewHasher(cfg.Hashing.MaxConcurrent)
			if adminEmail == "" || adminPass == "" {
				adminEmail, adminName, adminPass, err = bootstrap.PromptAdminCredentials()
				if err != nil {
					return err
				}
			}
			return bootstrap.CreateAdmin(ctx, store.Admins(), hasher, adminEmail, adminName, adminPass)
		},
	}
	cmd.Flags().StringVar(&adminEmail, "email", "", "Email del admin")
	cmd.Flags().StringVar(&adminName, "name", "", "Nombre visible (default: parte local del email)")
	cmd.Flags().StringVar(&adminPass, "password", "", "Password del admin")
	return cmd
}
