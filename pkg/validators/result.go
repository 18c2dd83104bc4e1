package validators

import (
	"errors"
	"strings"
)

// Result carries every failed rule at once so clients can show them together
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func newResult(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}

	return Result{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// Err folds the failed rules into a single error, nil when valid
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}

	return errors.New(strings.Join(r.Errors, ", "))
}
