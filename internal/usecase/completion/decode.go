package completion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/restaurant"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := restaurant.ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}

// Decode turns a model answer into T. The answer may be wrapped in a code
// fence or surrounded by prose; the outermost JSON object is decoded and
// validated. Keys T does not declare are ignored. Every failure wraps
// domain.ErrMalformedOutput.
func Decode[T any](raw string) (T, error) {
	var out T

	body, err := outermostObject(raw)
	if err != nil {
		return out, fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("%w: decode: %w", domain.ErrMalformedOutput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return out, fmt.Errorf("%w: trailing data after object", domain.ErrMalformedOutput)
	}

	if err := validate.Struct(out); err != nil {
		return out, fmt.Errorf("%w: validate: %w", domain.ErrMalformedOutput, err)
	}
	return out, nil
}

// Check reports whether raw decodes into T. It matches the answer check
// signature of domain.ContextWithAnswerCheck.
func Check[T any](raw string) error {
	_, err := Decode[T](raw)
	return err
}

func outermostObject(raw string) ([]byte, error) {
	s := stripFence(strings.TrimSpace(raw))
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, errors.New("no JSON object in answer")
	}
	return []byte(s[start : end+1]), nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // language tag
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

