package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsboard/userdash/internal/gateway"
)

var (
	// backend config
	apiURL  string
	offline bool

	// snapshot cache config
	redisAddr     string
	redisPassword string

	verbose bool
)

// rootCmd is the base command for the CLI. It delegates to subcommands
// defined in browse.go and users.go. See init functions in those files
// for flag definitions.
var rootCmd = &cobra.Command{
	Use:   "userdash",
	Short: "User dashboard CLI",
	Long:  "Command line dashboard for browsing and managing a remote user collection.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

// Execute runs the root command. It should be invoked from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newGateway builds the gateway the command runs against: the static
// in-memory gateway seeded with demo data in offline mode, otherwise the
// HTTP gateway, with a Redis snapshot cache when one is configured. The
// returned cleanup func releases the cache connection.
func newGateway() (gateway.Gateway, func(), error) {
	if offline {
		return gateway.NewStaticGateway(gateway.DemoUsers()), func() {}, nil
	}

	cleanup := func() {}
	var opts []gateway.Option
	if redisAddr != "" {
		cache, err := gateway.NewRedisCache(redisAddr, redisPassword, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		cleanup = func() { cache.Close() }
		opts = append(opts, gateway.WithCache(cache))
	}
	return gateway.NewHTTPGateway(apiURL, opts...), cleanup, nil
}

func init() {

	rootCmd.PersistentFlags().StringVarP(&apiURL,
		"api-url", "u", gateway.DefaultBaseURL, "Base URL of the user API")

	rootCmd.PersistentFlags().BoolVar(&offline,
		"offline", false, "Run against the built-in demo dataset, no network")

	rootCmd.PersistentFlags().StringVarP(&redisAddr,
		"redis-address", "r", "", "Redis address for the snapshot cache (optional)")

	rootCmd.PersistentFlags().StringVarP(&redisPassword,
		"redis-password", "p", "", "Redis password")

	rootCmd.PersistentFlags().BoolVarP(&verbose,
		"verbose", "v", false, "Enable debug logging")
}
