package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zfogg/trellis/internal/auth"
	"github.com/zfogg/trellis/internal/config"
	"github.com/zfogg/trellis/internal/database"
)

var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Mint a bearer token for a user (operators only)",
	Long: `Mint a bearer token directly against the database. Reads the same
environment as the server (DATABASE_DRIVER, DATABASE_URL, JWT_SECRET).`,
	Args: cobra.ExactArgs(1),
	// Does not need an API token
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		authService := auth.NewService(db, []byte(cfg.JWTSecret), cfg.TokenTTL)
		token, err := authService.GenerateTokenForUsername(commandContext(cmd), args[0])
		if err != nil {
			return fmt.Errorf("failed to issue token for %s: %w", args[0], err)
		}

		if output == "json" {
			return printJSON(token)
		}
		fmt.Println(token.Token)
		fmt.Fprintf(os.Stderr, "expires %s\n", token.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}
