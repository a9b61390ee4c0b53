package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hersh/ros-comm/internal/config"
	"github.com/hersh/ros-comm/internal/osdetect"
	"github.com/hersh/ros-comm/internal/pipdeb"
	"github.com/hersh/ros-comm/internal/pyenv"
	"github.com/hersh/ros-comm/internal/rules"
	"github.com/hersh/ros-comm/internal/sysexec"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit core ROS Python package installations",
		Long: `Check that the core ROS Python packages are installed correctly.

Runs the following rules:
  1. Missing modules - every audited package must be importable
  2. Pip installs   - on Ubuntu, no audited package may come from pip
  3. Missing debs   - on Ubuntu, every Debian equivalent must be registered

Each rule that finds a problem produces one aggregated warning.`,
		Args:          cobra.NoArgs,
		RunE:          runCheck,
		SilenceErrors: true,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().Duration("timeout", 0, "Abort the audit after this duration (0 = no timeout)")
	return cmd
}

// newAuditor builds the production auditor. Tests swap it out to avoid
// shelling out to dpkg and the Python interpreter.
var newAuditor = func(cfg *config.Config) *pipdeb.Auditor {
	return pipdeb.New(
		cfg.Registry(),
		&osdetect.OSRelease{},
		sysexec.ExecRunner{},
		&pyenv.InterpreterLoader{Interpreter: cfg.Interpreter},
	)
}

// checkJSONReport is the machine-readable audit outcome.
type checkJSONReport struct {
	Timestamp string          `json:"timestamp"`
	Warnings  []rules.Finding `json:"warnings"`
	Errors    []rules.Finding `json:"errors"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	cfg, err := loadAuditConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	auditor := newAuditor(cfg)
	slog.Debug("running installation audit",
		"packages", len(auditor.Registry),
		"interpreter", cfg.Interpreter)

	wctx := rules.NewContext(ctx)
	if err := auditor.Check(wctx); err != nil {
		return fmt.Errorf("running installation audit: %w", err)
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		if err := writeCheckJSON(w, wctx); err != nil {
			return err
		}
	} else {
		writeCheckText(w, wctx)
	}

	if len(wctx.Warnings) > 0 || len(wctx.Errors) > 0 {
		return &FindingsError{Warnings: len(wctx.Warnings), Errors: len(wctx.Errors)}
	}
	return nil
}

func writeCheckText(w io.Writer, wctx *rules.Context) {
	if len(wctx.Warnings) == 0 && len(wctx.Errors) == 0 {
		fmt.Fprintln(w, "No problems found.") //nolint:errcheck
		return
	}

	if len(wctx.Warnings) > 0 {
		fmt.Fprintf(w, "Found %d warning(s).\n", len(wctx.Warnings))                                          //nolint:errcheck
		fmt.Fprintf(w, "Warnings are things that may be wrong but are not guaranteed to cause problems.\n\n") //nolint:errcheck
		for _, f := range wctx.Warnings {
			fmt.Fprintf(w, "WARNING %s\n", f.Message) //nolint:errcheck
		}
	}
	if len(wctx.Errors) > 0 {
		fmt.Fprintf(w, "\nFound %d error(s).\n\n", len(wctx.Errors)) //nolint:errcheck
		for _, f := range wctx.Errors {
			fmt.Fprintf(w, "ERROR %s\n", f.Message) //nolint:errcheck
		}
	}
}

func writeCheckJSON(w io.Writer, wctx *rules.Context) error {
	report := checkJSONReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Warnings:  wctx.Warnings,
		Errors:    wctx.Errors,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// loadAuditConfig honors the --config override when set; otherwise it
// searches upward from the working directory.
func loadAuditConfig(cmd *cobra.Command) (*config.Config, error) {
	path := ""
	if f := cmd.Flags().Lookup("config"); f != nil {
		path = f.Value.String()
	}
	if path != "" {
		return config.LoadFile(path)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return config.Load(wd)
}

// commandContext derives the run context from the command, applying the
// --timeout flag when it is set.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc, error) {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		return ctx, cancel, nil
	}
	return ctx, func() {}, nil
}
