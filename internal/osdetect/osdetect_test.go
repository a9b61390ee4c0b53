package osdetect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeOSRelease(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "os-release")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOSReleaseDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"ubuntu",
			"NAME=\"Ubuntu\"\nVERSION=\"22.04.4 LTS (Jammy Jellyfish)\"\nID=ubuntu\nID_LIKE=debian\n",
			"ubuntu",
		},
		{
			"quoted id",
			"ID=\"debian\"\nNAME=\"Debian GNU/Linux\"\n",
			"debian",
		},
		{
			"uppercase id is lowered",
			"ID=Fedora\n",
			"fedora",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &OSRelease{Path: writeOSRelease(t, tt.content)}
			got, err := d.Detect()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOSReleaseDetectErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		d := &OSRelease{Path: filepath.Join(t.TempDir(), "nope")}
		_, err := d.Detect()
		require.Error(t, err)
	})

	t.Run("no ID field", func(t *testing.T) {
		d := &OSRelease{Path: writeOSRelease(t, "NAME=\"Something\"\n")}
		_, err := d.Detect()
		require.ErrorContains(t, err, "no ID field")
	})

	t.Run("empty ID field", func(t *testing.T) {
		d := &OSRelease{Path: writeOSRelease(t, "ID=\nNAME=mystery\n")}
		_, err := d.Detect()
		require.ErrorContains(t, err, "no ID field")
	})
}

// Detection is queried fresh each call, so edits to the file show up in
// the next Detect.
func TestOSReleaseDetectNoCaching(t *testing.T) {
	path := writeOSRelease(t, "ID=ubuntu\n")
	d := &OSRelease{Path: path}

	got, err := d.Detect()
	require.NoError(t, err)
	require.Equal(t, "ubuntu", got)

	require.NoError(t, os.WriteFile(path, []byte("ID=debian\n"), 0o644))
	got, err = d.Detect()
	require.NoError(t, err)
	require.Equal(t, "debian", got)
}
