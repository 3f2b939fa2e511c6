package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field rules from the validate tags, then the rules that
// span fields. Every violation is reported, one per line.
func (c *Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}

	for i, m := range c.LLM.Models {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Errorf("llm.models[%d]: blank model name", i))
		}
	}
	// 0 disables limiting, so the floor only matters under a real ceiling.
	if rl := c.RateLimit; rl.RequestsPerSecond > 0 && rl.MinRequestsPerSecond > rl.RequestsPerSecond {
		errs = append(errs, fmt.Errorf("rate_limit.min_requests_per_second: %v exceeds requests_per_second %v",
			rl.MinRequestsPerSecond, rl.RequestsPerSecond))
	}
	return errors.Join(errs...)
}

// fieldError renders e.g. "http.port: must satisfy min=1 (got 0)".
func fieldError(fe validator.FieldError) error {
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return fmt.Errorf("%s: must satisfy %s (got %v)", path, rule, fe.Value())
}
