package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khoahotran/coding-portfolio/adapters/statsapi"
	statsUC "github.com/khoahotran/coding-portfolio/internal/application/usecase/stats"
	"github.com/khoahotran/coding-portfolio/internal/domain/profile"
	"github.com/khoahotran/coding-portfolio/internal/domain/stats"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var (
		leetcode string
		github   string
		asJSON   bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch the coding stats once and print them as the page renders them",
		Long: `Fetch the LeetCode solved count and the GitHub contributions of the last year
for the configured handles, wait for both requests to settle and print the values
the profile widget would show. A failed fetch prints N/A and exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			log := logger.NewNopLogger()
			if verbose {
				log = logger.NewZapLogger("development")
			}

			solved, contribs, err := statsapi.NewProviders(cfg, nil, log)
			if err != nil {
				return err
			}

			owner := profile.Profile{
				Handles: stats.Handles{
					LeetCode: cfg.Profile.LeetCodeHandle,
					GitHub:   cfg.Profile.GitHubHandle,
					TUF:      cfg.Profile.TUFHandle,
				},
				TUFSolved: cfg.Profile.TUFSolved,
			}.WithOverrides(leetcode, github)

			widget := statsUC.NewWidget(solved, contribs, nil, log)
			defer widget.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			widget.Activate(ctx, owner.Handles)
			if err := widget.Wait(ctx); err != nil {
				return fmt.Errorf("stats did not settle: %w", err)
			}

			rendered := stats.Render(widget.Snapshot(), owner.TUFSolved)
			if err := printRendered(cmd, rendered, asJSON); err != nil {
				return err
			}
			if rendered.Error != "" {
				return errors.New(rendered.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&leetcode, "leetcode", "", "LeetCode handle (default: profile.leetcode_handle)")
	cmd.Flags().StringVar(&github, "github", "", "GitHub handle (default: profile.github_handle)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log requests")
	return cmd
}

func printRendered(cmd *cobra.Command, r stats.Rendered, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Fprintf(out, "TUF+      %s\t%s\n", r.TUFSolved, r.TUFProfileURL)
	fmt.Fprintf(out, "LeetCode  %s\t%s\n", r.Solved, r.LeetCodeProfileURL)
	fmt.Fprintf(out, "GitHub    %s\t%s\n", r.Contributions, r.GitHubProfileURL)
	return nil
}
