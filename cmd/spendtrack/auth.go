package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spendtrack/internal/cli"
	"spendtrack/internal/common"
	"spendtrack/internal/drive"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in with Google",
		Long: `Run the Google OAuth flow in the browser, store the resulting token
and profile locally, and make this the active user. Until you sign in,
entries are recorded under the local demo user.`,
		RunE: runAuth,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user",
		RunE:  runAuthStatus,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and session",
		RunE:  runAuthLogout,
	})

	return cmd
}

func runAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := viper.GetString("google.client_id")
	clientSecret := viper.GetString("google.client_secret")
	if clientID == "" || clientSecret == "" {
		return common.NewUserError(
			"google.client_id and google.client_secret must be set (config file or SPENDTRACK_GOOGLE_CLIENT_ID / SPENDTRACK_GOOGLE_CLIENT_SECRET)",
			common.ErrMissingConfig)
	}

	token, err := drive.AuthenticateInteractive(ctx, drive.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile(),
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	user, err := drive.FetchProfile(ctx, drive.TokenSource(token))
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if err := saveSession(user.ID); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("%s Signed in as %s %s\n",
		cli.SuccessStyle.Render("✓"),
		cli.BoldStyle.Render(user.Name),
		cli.SubtleStyle.Render("<"+user.Email+">"))
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID := currentUserID()

	if currentToken() == nil {
		fmt.Println(cli.WarningStyle.Render("Not signed in (or the token has expired)."))
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	user, err := store.GetUser(ctx, userID)
	if err != nil {
		fmt.Printf("Active user: %s\n", cli.BoldStyle.Render(userID))
		return nil
	}

	fmt.Printf("Active user: %s %s\n",
		cli.BoldStyle.Render(user.Name),
		cli.SubtleStyle.Render("<"+user.Email+">"))

	count, err := store.CountExpenses(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Printf("Expenses:    %d\n", count)
	return nil
}

func runAuthLogout(_ *cobra.Command, _ []string) error {
	for _, path := range []string{tokenFile(), sessionFile()} {
		if err := removeIfExists(path); err != nil {
			return err
		}
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Signed out. Entries now go to the local demo user."))
	return nil
}
