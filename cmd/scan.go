package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gurdipscode/portfolio/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Triggers the SonarQube analysis of this project",
	Long:  `Runs the SonarQube scanner once with the project configuration and exits with status 0 on success and 1 on any failure.`,
	Run: func(cmd *cobra.Command, args []string) {
		s := scanner.New(scanner.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}, cfg.Sonar.Binary, logger)
		code := runScan(context.Background(), s, scanOptions(), logger)
		_ = logger.Sync()
		os.Exit(code)
	},
}

func scanOptions() scanner.Options {
	return scanner.Options{
		ServerURL:   cfg.Sonar.ServerURL,
		Token:       cfg.Sonar.Token,
		ProjectKey:  cfg.Sonar.ProjectKey,
		ProjectName: cfg.Sonar.ProjectName,
		Description: cfg.Sonar.Description,
		Sources:     cfg.Sonar.Sources,
		Tests:       cfg.Sonar.Tests,
		Properties:  cfg.Sonar.Properties,
	}
}

// runScan returns the process exit status of a single analysis.
func runScan(ctx context.Context, s *scanner.Scanner, opts scanner.Options, logger *zap.Logger) int {
	if err := s.Scan(ctx, opts); err != nil {
		logger.Error("Error occurred", zap.Error(err))
		return 1
	}
	logger.Info("SonarQube analysis completed successfully")
	return 0
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
