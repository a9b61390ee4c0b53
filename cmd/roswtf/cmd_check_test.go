package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/ros-comm/internal/config"
	"github.com/hersh/ros-comm/internal/pipdeb"
	"github.com/hersh/ros-comm/internal/pyenv"
	"github.com/hersh/ros-comm/internal/rules"
)

type stubDetector string

func (d stubDetector) Detect() (string, error) { return string(d), nil }

// stubLoader maps importable module names to origins.
type stubLoader map[string]string

func (l stubLoader) TryLoad(_ context.Context, name string) (*pyenv.ModuleInfo, error) {
	origin, ok := l[name]
	if !ok {
		return nil, nil
	}
	return &pyenv.ModuleInfo{Name: name, Origin: origin}, nil
}

// stubRunner answers dpkg queries from a set of installed deb names.
type stubRunner map[string]bool

func (r stubRunner) Run(_ context.Context, name string, args ...string) (int, error) {
	if r[args[len(args)-1]] {
		return 0, nil
	}
	return 1, nil
}

// installFakeAuditor reroutes auditor construction to stub collaborators
// for the duration of the test.
func installFakeAuditor(t *testing.T, distro string, modules map[string]string, debs map[string]bool) {
	t.Helper()
	orig := newAuditor
	newAuditor = func(cfg *config.Config) *pipdeb.Auditor {
		return pipdeb.New(cfg.Registry(), stubDetector(distro), stubRunner(debs), stubLoader(modules))
	}
	t.Cleanup(func() { newAuditor = orig })
}

// writeTestConfig returns a config path pinning the registry to alpha/beta.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roswtf.yaml")
	content := `packages:
  - package: alpha
    deb: python-alpha
  - package: beta
    deb: python-beta
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return output.String(), err
}

func TestCheckCommandCleanEnvironment(t *testing.T) {
	installFakeAuditor(t, "ubuntu",
		map[string]string{
			"alpha": "/usr/lib/python3/dist-packages/alpha/__init__.py",
			"beta":  "/usr/lib/python3/dist-packages/beta/__init__.py",
		},
		map[string]bool{"python-alpha": true, "python-beta": true})

	out, err := runCommand(t, "check", "--config", writeTestConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "No problems found.")
}

func TestCheckCommandFindsProblems(t *testing.T) {
	installFakeAuditor(t, "ubuntu",
		map[string]string{"beta": "/usr/local/lib/beta"},
		map[string]bool{"python-beta": true})

	out, err := runCommand(t, "check", "--config", writeTestConfig(t))

	var findingsErr *FindingsError
	require.ErrorAs(t, err, &findingsErr)
	assert.Equal(t, 3, findingsErr.Warnings)
	assert.Equal(t, 0, findingsErr.Errors)

	assert.Contains(t, out, "Found 3 warning(s).")
	assert.Contains(t, out, "WARNING You are missing core ROS Python modules: alpha -- ")
	assert.Contains(t, out, "WARNING You have pip installed packages on Ubuntu, remove and install using Debian packages: beta -- ")
	assert.Contains(t, out, "WARNING You are missing Debian packages for core ROS Python modules: alpha (python-alpha) -- ")
}

func TestCheckCommandOtherDistribution(t *testing.T) {
	installFakeAuditor(t, "fedora",
		map[string]string{"beta": "/usr/local/lib/beta"},
		map[string]bool{})

	out, err := runCommand(t, "check", "--config", writeTestConfig(t))

	var findingsErr *FindingsError
	require.ErrorAs(t, err, &findingsErr)
	assert.Equal(t, 1, findingsErr.Warnings)

	assert.Contains(t, out, "WARNING You are missing core ROS Python modules: alpha -- ")
	assert.NotContains(t, out, "pip installed packages")
	assert.NotContains(t, out, "missing Debian packages")
}

func TestCheckCommandJSON(t *testing.T) {
	installFakeAuditor(t, "ubuntu",
		map[string]string{"beta": "/usr/local/lib/beta"},
		map[string]bool{"python-alpha": true, "python-beta": true})

	out, err := runCommand(t, "check", "--config", writeTestConfig(t), "--format", "json")

	var findingsErr *FindingsError
	require.ErrorAs(t, err, &findingsErr)

	var report struct {
		Timestamp string          `json:"timestamp"`
		Warnings  []rules.Finding `json:"warnings"`
		Errors    []rules.Finding `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotEmpty(t, report.Timestamp)
	require.Empty(t, report.Errors)
	require.Equal(t, []rules.Finding{
		{
			Rule:    "missing-python-modules",
			Message: "You are missing core ROS Python modules: alpha -- ",
		},
		{
			Rule:    "pip-installed-on-ubuntu",
			Message: "You have pip installed packages on Ubuntu, remove and install using Debian packages: beta -- ",
		},
	}, report.Warnings)
}

func TestCheckCommandInvalidFormat(t *testing.T) {
	_, err := runCommand(t, "check", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCheckCommandBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roswtf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interpretter: python3\n"), 0o644))

	_, err := runCommand(t, "check", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}
