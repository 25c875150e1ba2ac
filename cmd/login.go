package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codegym-software/imeetcal/internal/api"
)

var (
	loginEmail string
	useGoogle  bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the meeting server",
	Long: `Sign in to the meeting server and store the session cookie for this run.

With --google, a Google OAuth URL is printed; open it in a browser and paste
the authorization code back. Otherwise email and password are used.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().BoolVar(&useGoogle, "google", false, "Sign in with Google OAuth")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		initConfig()
	}

	client, err := api.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("setting up API client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	var user api.User
	if useGoogle {
		user, err = googleLogin(ctx, client)
	} else {
		user, err = passwordLogin(ctx, client)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func passwordLogin(ctx context.Context, client *api.Client) (api.User, error) {
	reader := bufio.NewReader(os.Stdin)

	email := loginEmail
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return api.User{}, fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return api.User{}, fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	return client.Login(ctx, email, password)
}

func googleLogin(ctx context.Context, client *api.Client) (api.User, error) {
	oauth := cfg.OAuth
	if oauth.ClientID == "" {
		return api.User{}, fmt.Errorf("google sign-in requires oauth.client_id in the config")
	}

	flow := api.NewOAuthFlow(client, oauth.ClientID, oauth.ClientSecret, oauth.RedirectURL)
	fmt.Println("Open this URL in a browser and authorize the application:")
	fmt.Println()
	fmt.Println("  " + flow.AuthURL())
	fmt.Println()
	fmt.Print("Paste the authorization code here: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return api.User{}, fmt.Errorf("reading authorization code: %w", err)
	}

	return flow.Exchange(ctx, strings.TrimSpace(line))
}
