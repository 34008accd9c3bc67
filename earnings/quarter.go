package earnings

import (
	"fmt"
	"strings"

	apperrors "github.com/kbukum/vetta/errors"
)

// Quarter is a fiscal quarter.
type Quarter int

const (
	Q1 Quarter = iota + 1
	Q2
	Q3
	Q4
)

// Valid reports whether q is one of Q1..Q4.
func (q Quarter) Valid() bool { return q >= Q1 && q <= Q4 }

func (q Quarter) String() string {
	if !q.Valid() {
		return fmt.Sprintf("Quarter(%d)", int(q))
	}
	return fmt.Sprintf("Q%d", int(q))
}

// ParseQuarter parses "Q1".."Q4", ignoring case and surrounding space.
func ParseQuarter(s string) (Quarter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Q1":
		return Q1, nil
	case "Q2":
		return Q2, nil
	case "Q3":
		return Q3, nil
	case "Q4":
		return Q4, nil
	}
	return 0, apperrors.InvalidInput("quarter", fmt.Sprintf("invalid quarter: %s", s)).
		WithDetail("value", s)
}

// MarshalText implements encoding.TextMarshaler.
func (q Quarter) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, apperrors.InvalidInput("quarter", fmt.Sprintf("invalid quarter: %d", int(q)))
	}
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quarter) UnmarshalText(text []byte) error {
	parsed, err := ParseQuarter(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Set implements pflag.Value so a Quarter can back a command-line flag.
func (q *Quarter) Set(s string) error { return q.UnmarshalText([]byte(s)) }

// Type implements pflag.Value.
func (q *Quarter) Type() string { return "quarter" }
