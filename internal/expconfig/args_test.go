package expconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	testCases := []struct {
		name     string
		argv     []string
		expected Args
	}{
		{
			name:     "empty",
			argv:     nil,
			expected: Args{},
		},
		{
			name:     "long flags with separate values",
			argv:     []string{"--config-name", "train", "--config-dir", "/etc/conf", "lr=0.1"},
			expected: Args{ConfigName: "train", ConfigDir: "/etc/conf", Overrides: []string{"lr=0.1"}},
		},
		{
			name:     "underscore flags with equals",
			argv:     []string{"--config_name=train", "--config_dir=conf", "+extra=1"},
			expected: Args{ConfigName: "train", ConfigDir: "conf", Overrides: []string{"+extra=1"}},
		},
		{
			name:     "short flags",
			argv:     []string{"-cn", "eval", "model.depth=4", "-cd", "conf", "~debug"},
			expected: Args{ConfigName: "eval", ConfigDir: "conf", Overrides: []string{"model.depth=4", "~debug"}},
		},
		{
			name:     "unknown flags are overrides",
			argv:     []string{"--verbose", "x=y"},
			expected: Args{Overrides: []string{"--verbose", "x=y"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := ParseArgs(tc.argv)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, args)
		})
	}

	t.Run("flag without value", func(t *testing.T) {
		for _, argv := range [][]string{
			{"a=1", "-cn"},
			{"-cn", "train", "--config-dir"},
		} {
			_, err := ParseArgs(argv)
			assert.ErrorIs(t, err, ErrMissingValue)
		}
	})
}
