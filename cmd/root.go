// Package cmd defines and implements the CLI commands for the catalogctl executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/app"
	"github.com/JakeFAU/catalog-console/internal/console"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands will use.
// This allows us to inject a fake app during tests.
type App interface {
	Close()
	Logger() *zap.Logger
	Session() *console.Session
}

// appFactory builds the App for one invocation.
type appFactory func(ctx context.Context, opts app.Options) (App, error)

// newApp is the production application factory.
var newApp appFactory = func(ctx context.Context, opts app.Options) (App, error) {
	a, err := app.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// newRootCmd creates and configures the root command around factory.
func newRootCmd(factory appFactory) *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Admin console for the product catalog service.",
		Long: `catalogctl manages the product catalog backend from a terminal.
It browses and edits products and webhooks, and uploads CSV or XLSX files
for bulk import while following the job's live progress.`,
		SilenceUsage: true,

		// Runs before every subcommand so each one finds the App in its context.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := factory(cmd.Context(), app.Options{
				ConfigPath: cfgFile,
				Out:        cmd.OutOrStdout(),
				ErrOut:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml); CATALOG_* env vars override it")

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newProductsCmd())
	cmd.AddCommand(newWebhooksCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(newApp).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
