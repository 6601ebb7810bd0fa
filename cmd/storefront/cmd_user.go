package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/database"
)

// storefront user:check-role <email>
var checkRoleCmd = &cobra.Command{
	Use:   "user:check-role <email>",
	Short: "Show a user's roles and whether they are an admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		report, err := services.NewUserService().RoleReport(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		writeRoleReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func writeRoleReport(out io.Writer, r services.RoleReport) {
	fmt.Fprintf(out, "User: %s <%s>\n", r.User.Name, r.User.Email)
	if len(r.Roles) == 0 {
		fmt.Fprintln(out, "Roles: (none)")
	} else {
		fmt.Fprintf(out, "Roles: %s\n", strings.Join(r.Roles, ", "))
	}
	admin := "no"
	if r.IsAdmin {
		admin = "yes"
	}
	fmt.Fprintf(out, "Admin: %s\n", admin)
	for _, c := range r.Capabilities {
		fmt.Fprintf(out, "  can %s\n", c)
	}
}
