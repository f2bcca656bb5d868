package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/datahiredevops/datahire-workspace/internal/api"
	"github.com/datahiredevops/datahire-workspace/internal/config"
	"github.com/datahiredevops/datahire-workspace/internal/session"
)

var (
	flagConfigPath string
	flagBaseURL    string
	flagToken      string
	flagUserID     int
	flagTimeout    int
	flagVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "DataHire API base URL (defaults to DATAHIRE_BASE_URL env var)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Issued session token (defaults to DATAHIRE_TOKEN env var)")
	rootCmd.PersistentFlags().IntVar(&flagUserID, "user-id", 0, "User id (defaults to the token's user_id claim)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "HTTP timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
}

// loadSetup resolves the effective configuration (file, then flags, then
// environment), builds the API client and settles the user identity.
func loadSetup(cmd *cobra.Command) (*api.Client, config.Config, error) {
	var cfg config.Config
	if flagConfigPath != "" {
		loaded, err := config.LoadConfig(flagConfigPath)
		if err != nil {
			return nil, cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, cfg, err
		}
		cfg = *loaded
		if flagVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", flagConfigPath)
		}
	}

	// CLI overrides: only when the flag was explicitly set
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = flagBaseURL
	}
	if cmd.Flags().Changed("token") {
		cfg.Token = flagToken
	}
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = flagUserID
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = flagTimeout
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flagVerbose
	}

	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Config{})

	if cfg.BaseURL == "" {
		return nil, cfg, fmt.Errorf("--base-url is required (via flag, config, or %s)", config.EnvBaseURL)
	}
	if cfg.Token == "" {
		return nil, cfg, fmt.Errorf("--token is required (via flag, config, or %s)", config.EnvToken)
	}

	// The user id normally rides inside the token; an explicit value wins.
	if cfg.UserID == 0 {
		id, err := session.Introspect(cfg.Token)
		if err != nil {
			return nil, cfg, fmt.Errorf("resolving user from token: %w", err)
		}
		if id.Expired(time.Now()) {
			fmt.Fprintln(os.Stderr, "Warning: session token is expired; the API will likely reject requests")
		}
		cfg.UserID = id.UserID
	}

	client := api.New(cfg.BaseURL,
		api.WithToken(cfg.Token),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
	)
	return client, cfg, nil
}
