package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hersh/ros-comm/internal/pipdeb"
	"github.com/hersh/ros-comm/internal/spinner"
)

func newTableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show per-package installation status",
		Long: `Probe every audited package and print one row per package: whether a
command of that name is on PATH, whether its Debian package is
registered with dpkg, and whether its Python module resolves to pip's
install tree.`,
		Args:          cobra.NoArgs,
		RunE:          runTable,
		SilenceErrors: true,
	}
	cmd.Flags().Duration("timeout", 0, "Abort probing after this duration (0 = no timeout)")
	return cmd
}

func runTable(cmd *cobra.Command, args []string) error {
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

	stop := func() {}
	if f, ok := cmd.ErrOrStderr().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		stop = spinner.Start(f, "Probing packages")
	}
	statuses, err := auditor.Survey(ctx)
	stop()
	if err != nil {
		return fmt.Errorf("probing packages: %w", err)
	}

	printStatusTable(cmd.OutOrStdout(), statuses)
	return nil
}

func printStatusTable(w io.Writer, statuses []pipdeb.Status) {
	const (
		colRunnable = len("Runnable")
		colDeb      = len("Deb Installed")
	)

	// Size the name columns to their longest entry.
	nameWidth := len("Py Package")
	debWidth := len("Deb Package")
	for _, s := range statuses {
		if n := runewidth.StringWidth(s.Package.Name); n > nameWidth {
			nameWidth = n
		}
		if n := runewidth.StringWidth(s.Package.Deb); n > debWidth {
			debWidth = n
		}
	}

	fmt.Fprintf(w, "%s | %s | %s | %s | %s\n", //nolint:errcheck
		padRight("Py Package", nameWidth),
		padRight("Deb Package", debWidth),
		padRight("Runnable", colRunnable),
		padRight("Deb Installed", colDeb),
		"Installed Via Pip")
	fmt.Fprintf(w, "%s-+-%s-+-%s-+-%s-+-%s\n", //nolint:errcheck
		strings.Repeat("-", nameWidth),
		strings.Repeat("-", debWidth),
		strings.Repeat("-", colRunnable),
		strings.Repeat("-", colDeb),
		strings.Repeat("-", len("Installed Via Pip")))

	for _, s := range statuses {
		fmt.Fprintf(w, "%s | %s | %s | %s | %s\n", //nolint:errcheck
			padRight(s.Package.Name, nameWidth),
			padRight(s.Package.Deb, debWidth),
			padRight(yesNo(s.Runnable), colRunnable),
			padRight(yesNo(s.DebInstalled), colDeb),
			yesNo(s.PipInstalled))
	}
}

// yesNo reinterprets a boolean as "Yes" or "No".
func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
