package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PeronGH/SydneyWeb/internal/cli/client"
	"github.com/PeronGH/SydneyWeb/internal/cli/config"
	"github.com/PeronGH/SydneyWeb/internal/cli/ui"
)

var (
	configureServer     string
	configureCookieFile string
	configureStyle      string
	configureLocale     string
)

// configureCmd is the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "save server address and chat defaults",
	Long: `Save the server address, the cookie file path and the default chat
settings to ~/.sydneyctl/config.json. Values not given keep their
current value.`,
	Example: `  # Point the CLI at a local server
  $ sydneyctl configure -s http://localhost:8080

  # Use a browser cookie export and default to precise style
  $ sydneyctl configure --cookie-file ~/cookies.json --style precise`,
	RunE: runConfigure,
}

func init() {
	configureCmd.SilenceUsage = true
	configureCmd.Flags().StringVarP(&configureServer, "server", "s", "", "server address")
	configureCmd.Flags().StringVar(&configureCookieFile, "cookie-file", "", "path to the upstream cookie export (JSON)")
	configureCmd.Flags().StringVar(&configureStyle, "style", "", "default conversation style: creative, precise or balanced")
	configureCmd.Flags().StringVar(&configureLocale, "locale", "", "default locale, e.g. en-US")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	if configureServer != "" {
		cfg.Server = configureServer
	}
	if configureCookieFile != "" {
		if _, err := config.LoadCookies(configureCookieFile); err != nil {
			ui.PrintError("cookie file check failed: %v", err)
			return fmt.Errorf("invalid cookie file")
		}
		cfg.CookieFile = configureCookieFile
	}
	if configureStyle != "" {
		cfg.Style = configureStyle
	}
	if configureLocale != "" {
		cfg.Locale = configureLocale
	}

	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}

	// Best-effort reachability check, config is saved either way.
	apiClient, err := client.NewAPIClient(cfg.Server)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiClient.Ping(ctx); err != nil {
			ui.PrintWarning("server not reachable: %v", err)
		} else {
			ui.PrintSuccess("server %s is reachable", cfg.Server)
		}
	}

	ui.PrintSuccess("configuration saved")
	return nil
}
