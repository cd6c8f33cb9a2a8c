package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"workforce/internal/domain/auth"
)

func newTokenCmd() *cobra.Command {
	var userID, tenantID, role string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is required")
			}
			if _, ok := auth.RolePermissions[role]; !ok {
				return fmt.Errorf("unknown role %q", role)
			}
			if userID == "" || tenantID == "" {
				return errors.New("--user and --tenant are required")
			}
			token, err := auth.GenerateToken(secret, auth.Claims{UserID: userID, TenantID: tenantID, Role: role}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&role, "role", auth.RoleAnalyst, "role: admin, analyst, viewer")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
