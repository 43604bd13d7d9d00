package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zfogg/trellis/pkg/apiclient"
)

var (
	cfgFile string
	verbose bool
	output  string // "text" or "json"

	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trellis",
	Short: "Trellis CLI - read your feeds and interact from the terminal",
	Long: `Trellis CLI provides command-line access to a Trellis server.
Browse feeds, like, follow and bookmark, and manage notifications.

Configuration is read from ~/.config/trellis/cli.toml and TRELLIS_* environment
variables (TRELLIS_API_URL, TRELLIS_TOKEN).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: level, ReportTimestamp: verbose})
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.config/trellis/cli.toml)")
	rootCmd.PersistentFlags().String("token", "", "Authentication token (defaults to TRELLIS_TOKEN)")
	rootCmd.PersistentFlags().String("api", "http://localhost:8787", "API server URL")
	rootCmd.PersistentFlags().Int("limit", 0, "Page size (server default when 0)")
	rootCmd.PersistentFlags().StringVar(&output, "output", "text", "Output format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log HTTP traffic")

	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("limit", rootCmd.PersistentFlags().Lookup("limit"))

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(chatTokenCmd)
	rootCmd.AddCommand(tokenCmd)
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "trellis"))
		viper.SetConfigName("cli")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("TRELLIS")
	viper.AutomaticEnv()
	viper.SetDefault("timeout", 30)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		logger.Debug("Using config file", "path", viper.ConfigFileUsed())
	}
	return nil
}

// newClient builds an API client from flags, config and environment
func newClient() (*apiclient.Client, error) {
	token := viper.GetString("token")
	if token == "" {
		return nil, fmt.Errorf("no auth token: set TRELLIS_TOKEN or pass --token (mint one with 'trellis token <username>')")
	}

	opts := []apiclient.Option{
		apiclient.WithTimeout(time.Duration(viper.GetInt("timeout")) * time.Second),
		apiclient.WithPageSize(viper.GetInt("limit")),
	}
	if verbose {
		opts = append(opts, apiclient.WithLogger(logger))
	}
	return apiclient.New(viper.GetString("api_url"), token, opts...), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
