// Package duration parses the H, H:M and H:M:S durations accepted by the
// entry command.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	clierrors "github.com/arcuo/clockify-cli/internal/errors"
)

var pattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2})(?::(\d{1,2}))?)?$`)

const formatHint = "Accepted formats: H, H:M or H:M:S (1-2 digits each), e.g. 2, 1:30 or 0:45:10"

// Duration is a parsed hours/minutes/seconds triple.
type Duration struct {
	Hours   int
	Minutes int
	Seconds int
}

// Parse validates s and expands omitted components to zero.
// Errors are validation CLIErrors; Parse never touches the process.
func Parse(s string) (Duration, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return Duration{}, clierrors.ValidationError(fmt.Errorf("invalid duration %q", s), formatHint)
	}

	d := Duration{
		Hours:   atoi(m[1]),
		Minutes: atoi(m[2]),
		Seconds: atoi(m[3]),
	}

	if d.Minutes > 59 {
		return Duration{}, clierrors.ValidationError(fmt.Errorf("invalid duration %q: minutes must be between 0 and 59", s), formatHint)
	}
	if d.Seconds > 59 {
		return Duration{}, clierrors.ValidationError(fmt.Errorf("invalid duration %q: seconds must be between 0 and 59", s), formatHint)
	}

	return d, nil
}

// atoi converts a regexp group; an unmatched optional group is zero.
func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
}

// String renders d as H:MM:SS.
func (d Duration) String() string {
	return fmt.Sprintf("%d:%02d:%02d", d.Hours, d.Minutes, d.Seconds)
}
