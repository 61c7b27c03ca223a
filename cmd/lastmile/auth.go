package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lastmile-org/lastmile/internal/secrets"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored API key",
}

var authSetCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store an API key in the OS keychain",
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.Print("API key: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("no input: %w", scanner.Err())
		}
		key := strings.TrimSpace(scanner.Text())
		if key == "" {
			return fmt.Errorf("empty API key")
		}
		if err := secrets.SetAPIKey(key); err != nil {
			return fmt.Errorf("store API key: %w", err)
		}
		pterm.Println("✅ API key stored in the OS keychain")
		return nil
	},
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.ClearAPIKey(); err != nil {
			return fmt.Errorf("clear API key: %w", err)
		}
		pterm.Println("API key removed")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an API key is configured",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := secrets.APIKey(); err != nil {
			pterm.Println("⚠️  No API key configured")
			pterm.Println("   Set OPENAI_API_KEY or run: lastmile auth set-key")
			pterm.Println("   Questions will be answered with keyword-based query rules.")
			return
		}
		pterm.Println("✅ API key configured")
	},
}

func init() {
	authCmd.AddCommand(authSetCmd, authClearCmd, authStatusCmd)
}
