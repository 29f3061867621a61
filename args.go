package trajviz

import (
	"errors"
	"fmt"
)

// ErrUsage is returned when the command line is missing required arguments.
var ErrUsage = errors.New("usage")

// StdinPath is the data file name reading the records from the standard input.
const StdinPath = "-"

// CheckArgs returns the data and parameter file names from the positional
// arguments. It only looks at the arguments and never opens any file. The
// parameter file name is empty when params are ignored or optional and absent.
// Extra arguments are ignored.
func CheckArgs(src ParamSource, args []string) (data, params string, err error) {
	switch src {
	case ParamsRequired:
		if len(args) < 2 {
			return "", "", fmt.Errorf("%w: please supply a data file name and a parameter file name", ErrUsage)
		}
		return args[0], args[1], nil
	case ParamsOptional:
		if len(args) < 1 {
			return "", "", fmt.Errorf("%w: please supply a data file name", ErrUsage)
		}
		if len(args) > 1 {
			params = args[1]
		}
		return args[0], params, nil
	default:
		if len(args) < 1 {
			return "", "", fmt.Errorf("%w: please supply a data file name", ErrUsage)
		}
		return args[0], "", nil
	}
}
