// Package pipdeb audits the installation of core ROS Python packages:
// whether each is importable, and on Ubuntu whether it came from a
// Debian package rather than pip.
package pipdeb

import (
	"context"
	"strings"

	"github.com/hersh/ros-comm/internal/osdetect"
	"github.com/hersh/ros-comm/internal/pyenv"
	"github.com/hersh/ros-comm/internal/sysexec"
)

// Package pairs an importable Python package with the Debian package
// that provides it.
type Package struct {
	Name string
	Deb  string
}

// Registry is the ordered universe of packages every check iterates
// over. All checks share the same registry so their results are
// comparable.
type Registry []Package

// DefaultRegistry returns the core ROS Python packages and their Debian
// equivalents.
func DefaultRegistry() Registry {
	return Registry{
		{Name: "bloom", Deb: "python-bloom"},
		{Name: "catkin", Deb: "python-catkin"},
		{Name: "rospkg", Deb: "python-rospkg"},
		{Name: "rosinstall", Deb: "python-rosinstall"},
		{Name: "rosrelease", Deb: "python-rosrelease"},
		{Name: "rosdep", Deb: "python-rosdep"},
	}
}

const (
	// TargetDistribution is the only distribution the installer-origin
	// checks apply to.
	TargetDistribution = "ubuntu"

	// pipPathMarker identifies the tree pip installs into on Ubuntu.
	pipPathMarker = "/usr/local"

	// resultSeparator joins offending package names in a rule result.
	resultSeparator = " -- "
)

// Auditor runs the installation checks against one environment. It is
// stateless: every check recomputes its answer from the collaborators.
type Auditor struct {
	Registry Registry
	Detector osdetect.Detector
	Runner   sysexec.Runner
	Loader   pyenv.Loader

	runnable func(string) bool
}

// New returns an auditor over the given registry and collaborators.
func New(reg Registry, det osdetect.Detector, r sysexec.Runner, l pyenv.Loader) *Auditor {
	return &Auditor{
		Registry: reg,
		Detector: det,
		Runner:   r,
		Loader:   l,
		runnable: sysexec.IsCommandRunnable,
	}
}

// isTargetDistribution reports whether the host runs the target
// distribution. Detection failures propagate; only the "not this
// distribution" outcome is special-cased by callers.
func (a *Auditor) isTargetDistribution() (bool, error) {
	id, err := a.Detector.Detect()
	if err != nil {
		return false, err
	}
	return id == TargetDistribution, nil
}

// isDebPackageInstalled asks dpkg whether a Debian package is
// registered. A non-zero exit and a failure to launch dpkg both read as
// "not installed".
func (a *Auditor) isDebPackageInstalled(ctx context.Context, deb string) bool {
	code, err := a.Runner.Run(ctx, "dpkg", "-l", deb)
	return err == nil && code == 0
}

// isPipPath reports whether a module path sits where pip installs code
// on the target distribution. Pure substring test; no filesystem access.
func isPipPath(path string) bool {
	return strings.Contains(path, pipPathMarker)
}

// isPackageImportable reports whether a Python package can be imported
// in the audited environment.
func (a *Auditor) isPackageImportable(ctx context.Context, name string) (bool, error) {
	mi, err := a.Loader.TryLoad(ctx, name)
	if err != nil {
		return false, err
	}
	return mi != nil, nil
}

// isPackagePipInstalled reports whether an importable package resolves
// to pip's install tree. A package that cannot be imported is never
// pip-installed.
func (a *Auditor) isPackagePipInstalled(ctx context.Context, name string) (bool, error) {
	mi, err := a.Loader.TryLoad(ctx, name)
	if err != nil {
		return false, err
	}
	if mi == nil {
		return false, nil
	}
	return isPipPath(mi.Origin), nil
}
