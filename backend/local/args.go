package local

import (
	"fmt"

	"github.com/jonwraymond/codecompare/backend"
)

// String returns a string argument, or def when absent.
func String(args map[string]any, key, def string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", backend.ErrInvalidArgument, key, v)
	}
	return s, nil
}

// Bool returns a boolean argument, or def when absent.
func Bool(args map[string]any, key string, def bool) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q must be a boolean, got %T", backend.ErrInvalidArgument, key, v)
	}
	return b, nil
}

// Number returns a numeric argument, or def when absent. JSON numbers
// decode as float64; ints are accepted for in-process callers.
func Number(args map[string]any, key string, def float64) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %q must be a number, got %T", backend.ErrInvalidArgument, key, v)
	}
}
