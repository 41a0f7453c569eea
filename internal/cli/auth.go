package cli

import (
	"fmt"

	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/spf13/cobra"
)

func newRegisterCommand(a *app) *cobra.Command {
	var reg domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a backend account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient()
			if err != nil {
				return err
			}
			if err := c.auth.Register(cmd.Context(), reg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registered successfully")
			return nil
		},
	}

	cmd.Flags().StringVarP(&reg.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&reg.ConfirmPassword, "confirm-password", "", "repeat the password")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the session token",
		Long: `Logs in and prints an export line for the session token, so that

  eval "$(storefront login -u name -p secret)"

makes it available to later cart commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient()
			if err != nil {
				return err
			}
			id, err := c.auth.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			cmd.PrintErrf("Logged in as %s (balance %.2f)\n", id.Username, id.Balance)
			fmt.Fprintf(cmd.OutOrStdout(), "export %s=%s\n", TokenEnv, id.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "account password")
	return cmd
}
