package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yamdb/internal/database"
	"yamdb/internal/models"
	"yamdb/internal/server"
	"yamdb/internal/services"
)

func newCreateAdminCmd(v *viper.Viper) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator and print a confirmation code",
		Long: `Create a user with the admin role and issue a confirmation code that
can be exchanged for a token at /v1/auth/token/.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(v)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.cfg.AutoMigrate {
				if err := database.Migrate(rt.db); err != nil {
					return err
				}
			}

			svc := server.NewServices(server.Deps{
				DB:        rt.db,
				Logger:    rt.logger,
				JWTSecret: rt.cfg.JWTSecret,
				JWTTTL:    rt.cfg.JWTTTL,
				CodeTTL:   rt.cfg.CodeTTL,
			})

			ctx := cmd.Context()
			user, err := svc.Users.CreateUser(ctx, services.UserRequest{
				Username: username,
				Email:    email,
				Role:     models.RoleAdmin,
			})
			if err != nil {
				return err
			}
			code, err := svc.Auth.IssueCode(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to issue confirmation code: %w", err)
			}

			cmd.Printf("created admin %s <%s>\nconfirmation code: %s\n", user.Username, user.Email, code)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
