// Package osdetect identifies the host operating system distribution.
package osdetect

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Detector reports the identity of the host operating system.
type Detector interface {
	// Detect returns the lowercase distribution identifier (e.g.
	// "ubuntu"). It fails when the identity cannot be determined.
	Detect() (string, error)
}

const defaultOSReleasePath = "/etc/os-release"

// OSRelease detects the distribution from the os-release file. The file
// is read fresh on every call; nothing is cached.
type OSRelease struct {
	// Path overrides the os-release location. Empty means /etc/os-release.
	Path string
}

var _ Detector = (*OSRelease)(nil)

func (d *OSRelease) Detect() (string, error) {
	path := d.Path
	if path == "" {
		path = defaultOSReleasePath
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("detecting host OS: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		v, ok := strings.CutPrefix(line, "ID=")
		if !ok {
			continue
		}
		id := strings.Trim(v, `"'`)
		if id == "" {
			break
		}
		return strings.ToLower(id), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("detecting host OS: reading %s: %w", path, err)
	}
	return "", fmt.Errorf("detecting host OS: no ID field in %s", path)
}
