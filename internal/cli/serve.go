package cli

import (
	"os"
	"os/signal"
	"syscall"

	storehttp "github.com/mrops-br/storefront-cart/internal/infrastructure/http"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/repository/memory"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory development backend",
		Long: `Serves the storefront HTTP API under /api/v1 from memory, seeded with a
small catalog. Accounts and carts are lost on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := storehttp.NewDevelopmentServer(&a.cfg.Server, memory.DefaultCatalog(), a.telem)
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default $SERVER_PORT or 8082)")
	return cmd
}
