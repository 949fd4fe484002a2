package resource

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingProperty reports an absent or empty required property.
	ErrMissingProperty = errors.New("missing property")
	// ErrInvalidProperty reports a property of the wrong type or value.
	ErrInvalidProperty = errors.New("invalid property")
	// ErrAlreadyExists lets a backend mark a Create as already done.
	ErrAlreadyExists = errors.New("resource already exists")
)

// PropertyError describes a malformed ResourceProperties entry.
type PropertyError struct {
	Key    string
	Detail string
	Err    error
}

func (e *PropertyError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s", e.Err, e.Key)
	}
	return fmt.Sprintf("%s %s: %s", e.Err, e.Key, e.Detail)
}

func (e *PropertyError) Unwrap() error { return e.Err }

// Properties is the free-form ResourceProperties bag. CloudFormation delivers
// every scalar as a string; locally built events may carry JSON numbers.
type Properties map[string]any

// String returns a required non-empty string property.
func (p Properties) String(key string) (string, error) {
	s, ok, err := p.lookupString(key)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return "", &PropertyError{Key: key, Err: ErrMissingProperty}
	}
	return s, nil
}

// OptionalString returns def when the property is absent or empty.
func (p Properties) OptionalString(key, def string) (string, error) {
	s, ok, err := p.lookupString(key)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return def, nil
	}
	return s, nil
}

// Int returns a required positive integer property.
func (p Properties) Int(key string) (int, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, &PropertyError{Key: key, Err: ErrMissingProperty}
	}
	n, err := toInt(v)
	if err != nil {
		return 0, &PropertyError{Key: key, Detail: err.Error(), Err: ErrInvalidProperty}
	}
	if n <= 0 {
		return 0, &PropertyError{Key: key, Detail: fmt.Sprintf("must be positive, got %d", n), Err: ErrInvalidProperty}
	}
	return n, nil
}

func (p Properties) lookupString(key string) (string, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", true, &PropertyError{Key: key, Detail: fmt.Sprintf("expected string, got %T", v), Err: ErrInvalidProperty}
	}
	return strings.TrimSpace(s), true, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
