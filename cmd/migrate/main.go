package main

import (
	"context"
	"fmt"
	"os"

	"tablebook/config"
	"tablebook/helper"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/user/model/dto"
	"tablebook/internal/domains/user/repository"
	"tablebook/shared/constant"
	"tablebook/shared/logger"
	"tablebook/shared/password"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the tablebook database schema",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.InitLogger()
			logger.SetLogLevel(config.Get())
		},
	}

	root.AddCommand(
		newStepCmd("up", "Apply every pending migration", helper.Up),
		newStepCmd("down", "Roll back the latest migration", helper.Down),
		newStepCmd("step-up", "Apply the next pending migration", helper.StepUp),
		newStepCmd("drop", "Roll back every migration", helper.Drop),
		newCreateAdminCmd(),
	)

	return root
}

func newStepCmd(use, short string, run func(*config.Config) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(config.Get())
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	req := dto.CreateUserRequest{Role: constant.RoleAdmin}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()
			ctx := context.Background()

			repo := repository.New(postgres.New(cfg), otel.New(cfg))

			exist, err := repo.Exist(ctx, repository.FilterByEmail(req.Email))
			if err != nil {
				return fmt.Errorf("failed to check admin email: %w", err)
			}

			if exist {
				return fmt.Errorf("email %s is already registered", req.Email)
			}

			hashed, err := password.Hash(req.Password)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}

			admin := req.ToModel(constant.ContextSystem, hashed)
			if err := repo.Insert(ctx, admin); err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			log.Info().Str("id", admin.ID).Str("email", admin.Email).Msg("Admin account created")

			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "Admin", "admin first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "admin last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
