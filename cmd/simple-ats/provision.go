package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-ats/pkg/provisioning"
	"go.uber.org/zap"
)

func provisionCmd() *cobra.Command {
	var name, tenantID, industry, adminEmail string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create a company and, optionally, its first administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			req := provisioning.Request{Name: name, TenantID: tenantID}
			if cmd.Flags().Changed("industry") {
				req.Industry = &industry
			}
			if cmd.Flags().Changed("admin-email") {
				req.AdminEmail = &adminEmail
			}

			result, err := a.provisioningService().Provision(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company display name")
	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "tenant identifier (lowercase letters, digits and hyphens)")
	cmd.Flags().StringVar(&industry, "industry", "", "industry")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of the first tenant administrator")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("tenant-id")
	return cmd
}

func bootstrapPlatformCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "bootstrap-platform",
		Short: "Create the platform tenant and its first platform administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.provisioningService().BootstrapPlatformAdmin(cmd.Context(), email)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "platform administrator email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func pruneSessionsCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune-sessions",
		Short: "Delete sessions that expired or were revoked before the cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.sessions.DeleteExpired(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			a.logger.Info("sessions pruned", zap.Int64("deleted", n), zap.Duration("older_than", olderThan))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d sessions\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "keep sessions that ended more recently than this")
	return cmd
}

// printResult writes the creation result for the operator. The temporary
// password is printed here once and nowhere else.
func printResult(w io.Writer, result *provisioning.CreationResult) {
	fmt.Fprintf(w, "company:   %s (%s)\n", result.Tenant.Name, result.Tenant.Key)
	fmt.Fprintf(w, "id:        %s\n", result.Tenant.ID)
	if !result.AdminCreated {
		fmt.Fprintln(w, "admin:     none")
		return
	}
	fmt.Fprintf(w, "admin:     %s (%s)\n", result.AdminUser.Email, result.AdminUser.Role)
	fmt.Fprintf(w, "temporary password (shown once, single use): %s\n", result.TemporaryPassword)
}
