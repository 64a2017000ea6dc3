package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gurdipscode/portfolio/internal/usecase"
)

var usernameOverride string

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Fetches the recent GitHub repositories and outputs them as JSON",
	Long:  `Fetches the most recently updated public repositories of the configured GitHub user, exactly as the GitHub widget shows them, and outputs the snapshot in JSON format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if usernameOverride != "" {
			cfg.GitHub.Username = usernameOverride
		}
		widget, err := newGitHubWidget()
		if err != nil {
			return err
		}
		return runRepos(context.Background(), os.Stdout, widget)
	},
}

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Runs a Lighthouse audit of the configured site and outputs the scores as JSON",
	Long:  `Runs a PageSpeed Insights audit of the configured website and outputs the four category scores in JSON format. When the audit fails the fallback scores are printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		widget, err := newPerformanceWidget(ctx)
		if err != nil {
			return err
		}
		return runPerformance(ctx, os.Stdout, widget)
	},
}

// runRepos prints the GitHub widget snapshot. A failed fetch is printed in its
// error state and then returned, so the command exits 1.
func runRepos(ctx context.Context, w io.Writer, widget *usecase.GitHubWidget) error {
	snapshot, loadErr := widget.Load(ctx)
	if err := printJSON(w, snapshot); err != nil {
		return err
	}
	if loadErr != nil {
		return fmt.Errorf("failed to fetch repositories: %w", loadErr)
	}
	return nil
}

// runPerformance prints the performance widget snapshot.
func runPerformance(ctx context.Context, w io.Writer, widget *usecase.PerformanceWidget) error {
	// A failed audit is already logged and replaced by the fallback scores.
	snapshot, _ := widget.Load(ctx)
	return printJSON(w, snapshot)
}

// printJSON writes v as pretty-printed JSON.
func printJSON(w io.Writer, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func init() {
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(performanceCmd)
	reposCmd.Flags().StringVarP(&usernameOverride, "user", "u", "", "GitHub user name (defaults to the configured one)")
}
