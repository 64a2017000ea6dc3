// Package scanner triggers a SonarQube code-quality analysis of the project.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"go.uber.org/zap"
)

// Options is the static project configuration passed to the scanner.
type Options struct {
	ServerURL   string
	Token       string
	ProjectKey  string
	ProjectName string
	Description string
	Sources     string
	Tests       string
	// Properties holds additional sonar.* analysis parameters.
	Properties map[string]string
}

// Args returns the analysis parameters as sorted -Dkey=value flags. The token is
// not included; it is passed through the environment.
func (o Options) Args() []string {
	props := make(map[string]string, len(o.Properties)+6)
	for k, v := range o.Properties {
		props[k] = v
	}
	set := func(key, value string) {
		if value != "" {
			props[key] = value
		}
	}
	set("sonar.host.url", o.ServerURL)
	set("sonar.projectKey", o.ProjectKey)
	set("sonar.projectName", o.ProjectName)
	set("sonar.projectDescription", o.Description)
	set("sonar.sources", o.Sources)
	set("sonar.tests", o.Tests)

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, fmt.Sprintf("-D%s=%s", k, props[k]))
	}
	return args
}

func (o Options) validate() error {
	if o.ServerURL == "" {
		return errors.New("sonar server URL must not be empty")
	}
	if o.ProjectKey == "" {
		return errors.New("sonar project key must not be empty")
	}
	return nil
}

// Runner executes an external program.
type Runner interface {
	Run(ctx context.Context, name string, args, env []string) error
}

// ExecRunner runs programs as child processes, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts name with args, adding env to the current environment, and waits for it to exit.
func (r ExecRunner) Run(ctx context.Context, name string, args, env []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Scanner invokes the SonarQube scanner CLI.
type Scanner struct {
	runner Runner
	binary string
	logger *zap.Logger
}

// New creates a new Scanner instance.
func New(runner Runner, binary string, logger *zap.Logger) *Scanner {
	return &Scanner{runner: runner, binary: binary, logger: logger}
}

// Scan runs a single analysis with opts.
func (s *Scanner) Scan(ctx context.Context, opts Options) error {
	if err := opts.validate(); err != nil {
		return fmt.Errorf("invalid scan options: %w", err)
	}
	var env []string
	if opts.Token != "" {
		env = append(env, "SONAR_TOKEN="+opts.Token)
	} else {
		s.logger.Warn("SONAR_TOKEN is not set, running analysis without authentication")
	}
	s.logger.Info("starting SonarQube analysis",
		zap.String("server", opts.ServerURL),
		zap.String("project", opts.ProjectKey))
	if err := s.runner.Run(ctx, s.binary, opts.Args(), env); err != nil {
		return fmt.Errorf("sonarqube analysis failed: %w", err)
	}
	return nil
}
