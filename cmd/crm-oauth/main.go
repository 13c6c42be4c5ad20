package main

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/crosslink-labs/crm-oauth/internal/config"
	"github.com/crosslink-labs/crm-oauth/internal/logger"
	"github.com/crosslink-labs/crm-oauth/internal/oauth/providers"
	"github.com/crosslink-labs/crm-oauth/internal/requester"
	"github.com/crosslink-labs/crm-oauth/internal/server"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "crm-oauth",
	Short: "OAuth2 token exchange service for CRM providers",
	Long: `crm-oauth exchanges OAuth2 authorization codes for tokens against CRM
vendor token endpoints (HubSpot, Salesforce, Zoho) and serves the normalized
results over a small HTTP API.`,
	Run: runServer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()
	// Share the pflag set so viper sees the values cobra parsed
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

// runServer wires the fx application and blocks until shutdown
func runServer(cmd *cobra.Command, args []string) {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(config.Load),
		requester.Module,
		providers.Module,
		server.Module,
		fx.Invoke(func(cfg *config.Config) error {
			return logger.InitLogger(&cfg.Logging)
		}),
		fx.Invoke(registerServer),
	)

	if err := app.Err(); err != nil {
		pterm.Error.Printfln("Failed to initialize: %v", err)
		os.Exit(1)
	}

	app.Run()
}

func registerServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *server.Server) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())

			go func() {
				if err := srv.Start(runCtx); err != nil {
					logger.Error("Server exited", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			_ = logger.Sync()
			return nil
		},
	})
}
