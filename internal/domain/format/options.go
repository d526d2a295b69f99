package format

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"podium/internal/common"
)

// Package-level validator instance for format config structs.
var validate = validator.New()

// checkKeys rejects config keys no schema field accepts. Missing optional
// keys fall back to documented defaults; typos must not be silently
// ignored.
func checkKeys(cfg map[string]any, allowed ...string) error {
	for key := range cfg {
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown format option %q: %w", key, common.ErrValidation)
		}
	}
	return nil
}

// intOption reads an integer option. JSON round-trips hand numbers back as
// float64, so both representations are accepted; fractional values are not.
func intOption(cfg map[string]any, key string, def int) (int, error) {
	raw, ok := cfg[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("option %q must be an integer, got %v: %w", key, v, common.ErrValidation)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("option %q must be an integer, got %T: %w", key, raw, common.ErrValidation)
	}
}

// boolOption reads a boolean option.
func boolOption(cfg map[string]any, key string, def bool) (bool, error) {
	raw, ok := cfg[key]
	if !ok {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("option %q must be a boolean, got %T: %w", key, raw, common.ErrValidation)
	}
	return v, nil
}

func validateStruct(cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%v: %w", err, common.ErrValidation)
	}
	return nil
}
