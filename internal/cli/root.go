// Package cli is the storefront command line: a development backend and a
// client that drives the cart engine against any backend speaking the same
// HTTP contract.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mrops-br/storefront-cart/internal/app/catalog"
	"github.com/mrops-br/storefront-cart/internal/app/service"
	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/config"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/gateway"
	"github.com/mrops-br/storefront-cart/internal/infrastructure/telemetry"
	"github.com/spf13/cobra"
)

// TokenEnv supplies the session token when --token is not given
const TokenEnv = "STOREFRONT_TOKEN"

const shutdownTimeout = 5 * time.Second

// app carries what every command shares once PersistentPreRunE has run
type app struct {
	cfg   *config.Config
	telem *telemetry.Telemetry

	token    string
	backend  string
	logLevel string
}

// client is the cart engine wired to the remote gateway
type client struct {
	auth    *service.AuthService
	catalog *service.CatalogService
	cart    *service.CartService
}

// NewRootCommand builds the storefront command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront cart engine and development backend",
		Long: `storefront drives a storefront cart against a remote backend.

The backend is reached at STOREFRONT_BACKEND_URL (or --backend). Log in once
and export the printed token, or pass it with --token on every cart command.

Run "storefront serve" for an in-memory development backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.token, "token", "", "session token (default $"+TokenEnv+")")
	flags.StringVar(&a.backend, "backend", "", "backend base URL (default $STOREFRONT_BACKEND_URL)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newServeCommand(a),
		newRegisterCommand(a),
		newLoginCommand(a),
		newProductsCommand(a),
		newSearchCommand(a),
		newCartCommand(a),
	)

	return root
}

// Execute runs the command tree with os.Args and reports failures on stderr
func Execute() int {
	a := &app{}
	root := newRootCommand(a)
	// PersistentPostRunE is skipped when a command fails.
	defer func() { _ = a.shutdown() }()

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", domain.DisplayMessage(err))
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Client.BaseURL = a.backend
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.token == "" {
		a.token = os.Getenv(TokenEnv)
	}

	telem, err := telemetry.New(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a.cfg = cfg
	a.telem = telem
	return nil
}

func (a *app) shutdown() error {
	if a.telem == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := a.telem.Shutdown(ctx)
	a.telem = nil
	return err
}

func (a *app) identity() domain.Identity {
	return domain.Identity{Token: a.token}
}

func (a *app) newClient() (*client, error) {
	tracer := a.telem.TracerProvider.Tracer(telemetry.InstrumentationName)
	meter := a.telem.MeterProvider.Meter(telemetry.InstrumentationName)
	logger := a.telem.Logger

	gw, err := gateway.NewGateway(&a.cfg.Client, tracer, meter, logger)
	if err != nil {
		return nil, err
	}

	store := catalog.NewStore()
	cart := service.NewCartService(gw, store, tracer, meter, logger)

	return &client{
		auth:    service.NewAuthService(gw, tracer, logger),
		catalog: service.NewCatalogService(gw, store, cart, tracer, meter, logger),
		cart:    cart,
	}, nil
}
