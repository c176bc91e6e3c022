package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"ttscraper/pkg/apify"
	"ttscraper/pkg/auth"
	"ttscraper/pkg/config"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Apify API tokens",
	Long: `Manage stored Apify API tokens securely.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your token or commit it to version control!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [label]",
	Short: "Store an Apify API token securely",
	Long: `Store an Apify API token securely in the system keychain or an
encrypted file.

You will be prompted for the token, which is hidden as you type. The token
is verified against the Apify platform before it is saved, and the stored
entry remembers which account it belongs to.

To get a token:
1. Sign in at https://console.apify.com
2. Open Settings > API & Integrations
3. Copy your Personal API token`,
	Example: `  # Store the default token
  ttscraper auth login

  # Store a token under a named label
  ttscraper auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [label]",
	Short: "Remove a stored token",
	Long: `Remove a stored Apify API token.

If no label is provided, you will be shown a list of stored tokens to
choose from. You can also remove all tokens at once.`,
	Example: `  # Interactive logout
  ttscraper auth logout

  # Remove a specific token
  ttscraper auth logout work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored tokens",
	Long:  `List all stored Apify API tokens with their values masked.`,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to open token store", err.Error())
		os.Exit(1)
	}

	label := auth.DefaultLabel
	if len(args) > 0 {
		label = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	// Show the token guide first
	auth.ShowTokenGuide()

	fmt.Print("Ready to enter your token? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'ttscraper auth login' when you're ready.")
		return
	}

	// Check if a token already exists under this label
	if existing, _ := manager.Retrieve(label); existing != nil {
		fmt.Printf("\n⚠️  A token is already stored under '%s'. Replace it? (y/N): ", label)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\n🔐 Enter your token (it will be hidden as you type):")
	fmt.Println()

	// Get the token with validation
	var token string
	for {
		fmt.Print("Apify API token: ")
		token, err = readToken()
		if err != nil {
			ui.PrintError("Failed to read token", err.Error())
			os.Exit(1)
		}
		token = strings.TrimSpace(token)

		// Basic validation
		if len(token) < 20 {
			fmt.Println("\n❌ That doesn't look like a valid Apify token.")
			fmt.Println("   It should be a long string, usually starting with 'apify_api_'.")
			fmt.Println("   Example: apify_api_AbCdEfGhIjKlMnOpQrStUvWxYz012345")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	// Verify the token against the platform before storing it
	fmt.Println("\n🔎 Verifying token with the Apify platform...")

	cfg := config.DefaultConfig()
	_ = cfg.LoadFromEnv()
	client := apify.NewClient(cfg.Apify.BaseURL, token, cfg.Apify.RequestTimeout, logger.GetLogger())

	var username string
	if user, err := client.Me(context.Background()); err != nil {
		ui.PrintWarning("Token verification failed", err.Error())
		fmt.Print("\nStore the token anyway? (y/N): ")
		anyway, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(anyway)), "y") {
			os.Exit(1)
		}
	} else {
		username = user.Username
		fmt.Printf("✅ Token belongs to Apify account '%s'\n", username)
	}

	// Show what we're about to do
	fmt.Println("\n📋 Summary:")
	fmt.Printf("   Label: %s\n", label)
	fmt.Printf("   Token: %s (hidden)\n", auth.MaskToken(token))
	if username != "" {
		fmt.Printf("   Account: %s\n", username)
	}

	cred := &auth.Credential{
		Label:    label,
		Token:    token,
		Username: username,
	}

	fmt.Println("\n💾 Storing token securely...")
	if err := manager.Store(cred); err != nil {
		ui.PrintError("Failed to store token", err.Error())
		os.Exit(1)
	}

	fmt.Println("\n🎉 Token stored successfully!")
	ui.PrintSuccess(fmt.Sprintf("Token saved: %s", label))

	// Show where the token is stored
	fmt.Println("\n🔒 Security Information:")
	fmt.Println("   Your token is stored in:")
	if _, err := auth.NewKeyringStore(); err == nil {
		fmt.Println("   • System keychain (primary)")
	}
	fmt.Println("   • Encrypted file (backup)")

	// Show how to use
	fmt.Println("\n📖 Quick Start Guide:")
	fmt.Println("   Scrape posts for any hashtags:")
	fmt.Printf("   $ ttscraper scrape <hashtags...>\n")
	fmt.Println("\n   Example:")
	fmt.Printf("   $ ttscraper scrape funny cats\n")
	if label != auth.DefaultLabel {
		fmt.Println("\n   Use this specific token:")
		fmt.Printf("   $ ttscraper scrape <hashtags...> --account %s\n", label)
	}
	fmt.Println("\n   Show more options:")
	fmt.Printf("   $ ttscraper scrape --help\n")
	fmt.Println("\n⚠️  Never share your token or commit it to version control!")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to open token store", err.Error())
		os.Exit(1)
	}

	if len(args) == 0 {
		// List tokens and ask which to remove
		creds, err := manager.List()
		if err != nil || len(creds) == 0 {
			ui.PrintError("No stored tokens found", "")
			return
		}

		if len(creds) == 1 {
			// Only one token, confirm deletion
			cred := creds[0]
			reader := bufio.NewReader(os.Stdin)
			fmt.Printf("Remove token '%s'? (y/N): ", cred.Label)
			input, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
				return
			}

			if err := manager.Delete(cred.Label); err != nil {
				ui.PrintError("Failed to remove token", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("Token removed: " + cred.Label)
			return
		}

		// Multiple tokens, show menu
		fmt.Println("Select token to remove:")
		for i, cred := range creds {
			fmt.Printf("  %d. %s\n", i+1, cred.Label)
		}
		fmt.Printf("  %d. Remove all tokens\n", len(creds)+1)
		fmt.Printf("  0. Cancel\n\n")

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Choice: ")
		input, _ := reader.ReadString('\n')

		var choice int
		fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

		if choice == 0 {
			return
		} else if choice == len(creds)+1 {
			// Remove all
			fmt.Print("Remove ALL tokens? This cannot be undone! (yes/N): ")
			confirm, _ := reader.ReadString('\n')
			if strings.TrimSpace(confirm) != "yes" {
				return
			}

			if err := manager.DeleteAll(); err != nil {
				ui.PrintError("Failed to remove all tokens", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("All tokens removed")
			return
		} else if choice > 0 && choice <= len(creds) {
			cred := creds[choice-1]
			if err := manager.Delete(cred.Label); err != nil {
				ui.PrintError("Failed to remove token", err.Error())
				os.Exit(1)
			}
			ui.PrintSuccess("Token removed: " + cred.Label)
			return
		} else {
			ui.PrintError("Invalid choice", "")
			os.Exit(1)
		}
	}

	// Label provided as argument
	label := args[0]
	if err := manager.Delete(label); err != nil {
		ui.PrintError("Failed to remove token", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Token removed: " + label)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to open token store", err.Error())
		os.Exit(1)
	}

	creds, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list tokens", err.Error())
		os.Exit(1)
	}

	if len(creds) == 0 {
		ui.PrintInfo("No stored tokens", "Use 'ttscraper auth login' to add one")
		auth.ShowQuickTokenGuide()
		return
	}

	ui.PrintHighlight("Stored Tokens")
	fmt.Println()

	for i, cred := range creds {
		sanitized := auth.Sanitize(cred)
		fmt.Printf("%d. Label: %s\n", i+1, sanitized.Label)
		fmt.Printf("   Token: %s\n", sanitized.Token)
		if sanitized.Username != "" {
			fmt.Printf("   Account: %s\n", sanitized.Username)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readToken reads a token from stdin without echoing
func readToken() (string, error) {
	// Try to read without echo
	if term.IsTerminal(int(syscall.Stdin)) {
		token, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after the hidden input
		if err == nil {
			return string(token), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
