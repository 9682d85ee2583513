package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

func newCreateAdminCommand() *cobra.Command {
	var input service.UserCreateInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer app.close()

			input.Role = domain.RoleAdmin
			input.Status = domain.UserStatusActive
			user, err := app.users.Create(cmd.Context(), "", input)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			app.logger.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&input.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&input.Password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
