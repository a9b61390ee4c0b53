package pipdeb

import (
	"strings"

	"github.com/hersh/ros-comm/internal/rules"
)

// MissingModules lists registry packages that cannot be imported, in
// registry order, each followed by the result separator.
func (a *Auditor) MissingModules(wctx *rules.Context) (string, error) {
	var b strings.Builder
	for _, p := range a.Registry {
		ok, err := a.isPackageImportable(wctx.Ctx, p.Name)
		if err != nil {
			return "", err
		}
		if !ok {
			b.WriteString(p.Name)
			b.WriteString(resultSeparator)
		}
	}
	return b.String(), nil
}

// PipInstalled lists registry packages that were installed through pip
// on the target distribution. On any other distribution the check is
// inapplicable and reports nothing.
func (a *Auditor) PipInstalled(wctx *rules.Context) (string, error) {
	target, err := a.isTargetDistribution()
	if err != nil {
		return "", err
	}
	if !target {
		return "", nil
	}

	var b strings.Builder
	for _, p := range a.Registry {
		pip, err := a.isPackagePipInstalled(wctx.Ctx, p.Name)
		if err != nil {
			return "", err
		}
		if pip {
			b.WriteString(p.Name)
			b.WriteString(resultSeparator)
		}
	}
	return b.String(), nil
}

// MissingDebPackages lists registry packages whose Debian equivalent is
// absent from the package database, as "<name> (<deb>)". Only applies on
// the target distribution.
func (a *Auditor) MissingDebPackages(wctx *rules.Context) (string, error) {
	target, err := a.isTargetDistribution()
	if err != nil {
		return "", err
	}
	if !target {
		return "", nil
	}

	var b strings.Builder
	for _, p := range a.Registry {
		if !a.isDebPackageInstalled(wctx.Ctx, p.Deb) {
			b.WriteString(p.Name)
			b.WriteString(" (")
			b.WriteString(p.Deb)
			b.WriteString(")")
			b.WriteString(resultSeparator)
		}
	}
	return b.String(), nil
}

// WarningRules returns the auditor's warning rules in registration order.
func (a *Auditor) WarningRules() []rules.Rule {
	return []rules.Rule{
		{
			Name:    "missing-python-modules",
			Check:   a.MissingModules,
			Message: "You are missing core ROS Python modules: ",
		},
		{
			Name:    "pip-installed-on-ubuntu",
			Check:   a.PipInstalled,
			Message: "You have pip installed packages on Ubuntu, remove and install using Debian packages: ",
		},
		{
			Name:    "missing-deb-packages",
			Check:   a.MissingDebPackages,
			Message: "You are missing Debian packages for core ROS Python modules: ",
		},
	}
}

// ErrorRules returns the auditor's fatal rules. There are none today.
func (a *Auditor) ErrorRules() []rules.Rule {
	return nil
}

// Check runs every rule and registers its outcome with the run context.
// The first rule error aborts the run.
func (a *Auditor) Check(wctx *rules.Context) error {
	for _, r := range a.WarningRules() {
		result, err := r.Check(wctx)
		if err != nil {
			return err
		}
		rules.WarningRule(r, result, wctx)
	}
	for _, r := range a.ErrorRules() {
		result, err := r.Check(wctx)
		if err != nil {
			return err
		}
		rules.ErrorRule(r, result, wctx)
	}
	return nil
}
