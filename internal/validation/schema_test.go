package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateConfigBytes(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantErrs bool
	}{
		{
			"valid full config",
			"interpreter: python3\npackages:\n  - package: rospkg\n    deb: python-rospkg\n",
			false,
		},
		{
			"empty document",
			"",
			false,
		},
		{
			"unknown top-level key",
			"interpretter: python3\n",
			true,
		},
		{
			"package entry missing deb",
			"packages:\n  - package: rospkg\n",
			true,
		},
		{
			"empty package name",
			"packages:\n  - package: \"\"\n    deb: python-rospkg\n",
			true,
		},
		{
			"interpreter wrong type",
			"interpreter: 3\n",
			true,
		},
		{
			"not yaml at all",
			"{{{{",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfigBytes([]byte(tt.yaml))
			if tt.wantErrs {
				require.NotEmpty(t, errs)
			} else {
				require.Empty(t, errs)
			}
		})
	}
}

func TestValidateConfigErrorMentionsLocation(t *testing.T) {
	errs := ValidateConfigBytes([]byte("packages:\n  - package: rospkg\n"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "/packages/0")
}
