// Package validation checks write payloads and reports every failed rule as
// an ordered list of client-facing messages.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use; it caches nothing per call.
var validate = validator.New()

// Rule pairs a failure predicate with the message reported when it holds.
type Rule[T any] struct {
	Message string
	Fails   func(T) bool
}

// Collect runs every rule against v in order and returns the messages of the
// rules that failed. A nil result means v is valid.
func Collect[T any](v T, rules []Rule[T]) []string {
	var msgs []string
	for _, r := range rules {
		if r.Fails(v) {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// Tag builds a rule that fails when the selected field does not satisfy the
// validator tag (e.g. "required", "max=155").
func Tag[T any](field func(T) any, tag, message string) Rule[T] {
	return Rule[T]{
		Message: message,
		Fails: func(v T) bool {
			return validate.Var(field(v), tag) != nil
		},
	}
}

// Failed carries validation messages through error returns.
type Failed struct {
	Messages []string `json:"mensagens"`
}

func (f *Failed) Error() string {
	return "validation failed: " + strings.Join(f.Messages, "; ")
}

// Check wraps a non-empty message list into a *Failed.
func Check(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &Failed{Messages: msgs}
}
