// Package pyenv probes the Python environment the audit runs against.
package pyenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// DefaultInterpreter is the Python executable used when none is configured.
const DefaultInterpreter = "python3"

// ModuleInfo describes a Python module that was successfully imported.
type ModuleInfo struct {
	Name string
	// Origin is the module's on-disk source file path. Empty for modules
	// without one (builtins, namespace packages).
	Origin string
}

// Loader attempts to import Python modules by name.
type Loader interface {
	// TryLoad imports the named module. A module that cannot be imported
	// is an expected absence: TryLoad returns (nil, nil). A non-nil error
	// means the environment itself could not be probed.
	TryLoad(ctx context.Context, name string) (*ModuleInfo, error)
}

// importProbe imports the module named by argv[1] and prints its source
// file path. An ImportError exits non-zero.
const importProbe = `import importlib, sys
m = importlib.import_module(sys.argv[1])
sys.stdout.write(getattr(m, "__file__", "") or "")
`

// InterpreterLoader imports modules by shelling out to a Python
// interpreter. Successfully probed modules stay cached inside that
// subprocess only; the host environment is untouched.
type InterpreterLoader struct {
	// Interpreter is the Python executable to probe with. Empty means
	// DefaultInterpreter.
	Interpreter string
}

var _ Loader = (*InterpreterLoader)(nil)

func (l *InterpreterLoader) TryLoad(ctx context.Context, name string) (*ModuleInfo, error) {
	interp := l.Interpreter
	if interp == "" {
		interp = DefaultInterpreter
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, interp, "-c", importProbe, name)
	cmd.Stdout = &out
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Import failed; the module is not present.
			return nil, nil
		}
		return nil, fmt.Errorf("probing module %s with %s: %w", name, interp, err)
	}
	return &ModuleInfo{Name: name, Origin: out.String()}, nil
}
