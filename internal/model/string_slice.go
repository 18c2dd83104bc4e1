package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringSlice is stored as a JSON array in a text column so tags may hold any
// character. Rows written as comma separated lists still scan.
type StringSlice []string

func (StringSlice) GormDataType() string {
	return "text"
}

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}

	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode StringSlice, %w", err)
	}

	return string(b), nil
}

func (s *StringSlice) Scan(value any) error {
	var str string

	switch v := value.(type) {
	case nil:
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("failed to scan StringSlice, unexpected %T", value)
	}

	switch {
	case str == "":
		*s = StringSlice{}
	case strings.HasPrefix(str, "["):
		var out []string
		if err := json.Unmarshal([]byte(str), &out); err != nil {
			return fmt.Errorf("failed to decode StringSlice, %w", err)
		}
		*s = out
	default:
		*s = strings.Split(str, ",")
	}

	return nil
}

// ContainsFold reports whether any element contains the lowercase term
func (s StringSlice) ContainsFold(term string) bool {
	for _, v := range s {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}

	return false
}
