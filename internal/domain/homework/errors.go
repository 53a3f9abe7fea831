package homework

import (
	"fmt"
	"sort"
	"strings"
)

// MissingKeysError reports keys the API contract requires but the payload
// does not carry. It covers both the response envelope (homeworks,
// current_date) and individual records (homework_name, status).
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	keys := append([]string(nil), e.Keys...)
	sort.Strings(keys)
	return fmt.Sprintf("missing expected keys in API response: %s", strings.Join(keys, ", "))
}

// TypeMismatchError reports a payload value whose JSON type differs from
// the contract. Key is empty when the top-level value itself is wrong.
type TypeMismatchError struct {
	Key      string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("API response must be a JSON %s, got %s", e.Expected, e.Actual)
	}
	return fmt.Sprintf("API response key %q must be a JSON %s, got %s", e.Key, e.Expected, e.Actual)
}

// UnknownStatusError reports a homework status outside the recognized set.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status: %q", e.Status)
}
