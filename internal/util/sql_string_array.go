package util

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArrayAsJSON is stored as a JSON array of strings but used as a
// []string.
type StringArrayAsJSON []string

func (a StringArrayAsJSON) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]string{})
	}

	return json.Marshal(a)
}

func (a StringArrayAsJSON) Slice() []string {
	return []string(a)
}

func (a StringArrayAsJSON) Contains(v string) bool {
	for _, str := range a {
		if str == v {
			return true
		}
	}

	return false
}

func (a *StringArrayAsJSON) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return json.Unmarshal(src, &a)
	case string:
		return json.Unmarshal([]byte(src), &a)
	default:
		return fmt.Errorf("expected []byte or string, got %T", src)
	}
}
