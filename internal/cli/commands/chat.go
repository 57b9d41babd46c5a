package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PeronGH/SydneyWeb/internal/cli/client"
	"github.com/PeronGH/SydneyWeb/internal/cli/config"
	"github.com/PeronGH/SydneyWeb/internal/cli/tui"
	"github.com/PeronGH/SydneyWeb/internal/cli/types"
	"github.com/PeronGH/SydneyWeb/internal/cli/ui"
)

var (
	chatServer   string
	chatStyle    string
	chatLocale   string
	chatNoSearch bool
	chatImage    string
)

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start an interactive chat session",
	Long: `Start an interactive chat session against the configured server.

The reply streams in as it is generated, with search and loading
notices shown inline and suggested follow-ups listed after each turn.`,
	Example: `  # Start interactive chat
  $ sydneyctl chat

  # Attach an image to the first turn
  $ sydneyctl chat --image photo.jpg

  # Keyboard controls:
  • Enter sends the message
  • Esc quits the session`,
	RunE: runChat,
}

func init() {
	chatCmd.SilenceUsage = true
	chatCmd.Flags().StringVarP(&chatServer, "server", "s", "", "server address (overrides the saved one)")
	chatCmd.Flags().StringVar(&chatStyle, "style", "", "conversation style: creative, precise or balanced")
	chatCmd.Flags().StringVar(&chatLocale, "locale", "", "locale, e.g. en-US")
	chatCmd.Flags().BoolVar(&chatNoSearch, "no-search", false, "suppress upstream web search")
	chatCmd.Flags().StringVar(&chatImage, "image", "", "image file to attach to the first turn")
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Println("\nRun 'sydneyctl chat' to start an interactive session.")
		return fmt.Errorf("invalid arguments")
	}

	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	server := cfg.Server
	if chatServer != "" {
		server = chatServer
	}
	style := cfg.Style
	if chatStyle != "" {
		style = chatStyle
	}
	locale := cfg.Locale
	if chatLocale != "" {
		locale = chatLocale
	}

	var cookies []types.Cookie
	if cfg.CookieFile != "" {
		cookies, err = config.LoadCookies(cfg.CookieFile)
		if err != nil {
			ui.PrintError("failed to load cookies: %v", err)
			return fmt.Errorf("cookie load failed")
		}
	} else {
		ui.PrintWarning("no cookie file configured, the upstream may reject the session")
		fmt.Println("\nRun 'sydneyctl configure --cookie-file <path>' to set one.")
	}

	apiClient, err := client.NewAPIClient(server)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	program := tui.NewChatProgram(apiClient, tui.Options{
		Cookies:   cookies,
		Style:     style,
		Locale:    locale,
		NoSearch:  chatNoSearch || cfg.NoSearch,
		ImagePath: chatImage,
	})
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}
