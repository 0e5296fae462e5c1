package expconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingValue is returned when a config flag ends the command line.
var ErrMissingValue = errors.New("flag needs a value")

// Args holds the experiment-config flags found on a command line.
type Args struct {
	ConfigName string
	ConfigDir  string
	// Overrides holds every argument that is not a recognized flag.
	Overrides []string
}

// ParseArgs extracts --config-name (--config_name, -cn) and --config-dir
// (--config_dir, -cd) from argv, as "--flag value" or "--flag=value".
// Everything else is returned as an override. A flag with nothing after it
// fails with ErrMissingValue.
func ParseArgs(argv []string) (Args, error) {
	var args Args
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		flag, value, hasValue := strings.Cut(arg, "=")

		var dst *string
		switch flag {
		case "--config-name", "--config_name", "-cn":
			dst = &args.ConfigName
		case "--config-dir", "--config_dir", "-cd":
			dst = &args.ConfigDir
		default:
			args.Overrides = append(args.Overrides, arg)
			continue
		}

		if !hasValue {
			if i+1 >= len(argv) {
				return Args{}, fmt.Errorf("%w: %s", ErrMissingValue, flag)
			}
			i++
			value = argv[i]
		}
		*dst = value
	}
	return args, nil
}
