// Command portfolioctl runs one-shot portfolio operations from a shell: fetching the
// stats the page would show, hashing the admin password and issuing admin tokens.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khoahotran/coding-portfolio/internal/config"
)

type rootOptions struct {
	configDir string
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Operate the coding portfolio from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configDir, "config", "c", ".", "Directory holding config.yaml and .env")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "Operation timeout")

	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newHashPasswordCmd())
	rootCmd.AddCommand(newTokenCmd(opts))
	return rootCmd
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(o.configDir)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
