package match

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks failures caught before any state mutation:
	// invalid threshold, unknown mode, unusable store.
	ErrConfiguration = errors.New("configuration error")
	// ErrStorage marks I/O failures reading projections or writing batches.
	ErrStorage = errors.New("storage error")
)

// Wrap builds an error message that includes run context while tagging it
// with the provided marker for later classification.
func Wrap(marker error, stage, operation string, err error) error {
	detail := buildDetail(stage, operation)
	if marker == nil {
		marker = ErrStorage
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation string) string {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "run failure"
	}
	return strings.Join(parts, ": ")
}
