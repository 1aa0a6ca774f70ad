package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig checks every tagged constraint on the loaded config and
// folds the violations into a single readable error.
func ValidateConfig(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	lines := make([]string, 0, len(verrs))
	for _, e := range verrs {
		lines = append(lines, fmt.Sprintf("%s fails %q (value %v)", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(lines, "\n  "))
}
