package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// IntList stores a set of small integers as a comma-separated text column,
// e.g. "1,3,5" for Mon/Wed/Fri weekday selections.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ","), nil
}

func (l *IntList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}

	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into IntList", src)
	}

	if s == "" {
		*l = nil
		return nil
	}

	parts := strings.Split(s, ",")
	out := make(IntList, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("invalid IntList element %q: %w", p, err)
		}
		out = append(out, n)
	}
	*l = out
	return nil
}
