package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/router/attribute"
)

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("attribute", validateAttribute); err != nil {
		return nil, fmt.Errorf("register attribute validator: %w", err)
	}

	return v, nil
}

func validateAttribute(fl validator.FieldLevel) bool {
	_, err := attribute.Parse(fl.Field().String())
	return err == nil
}

// Validate checks the struct tags first and then rules spanning several fields: default
// headers must be valid response headers and route names must be unique.
func (c *Config) Validate() error {
	v, err := newValidator()
	if err != nil {
		return err
	}

	if err = v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	return errors.Join(
		c.validateDefaultHeaders(),
		c.validateRouteNames(),
	)
}

func (c *Config) validateDefaultHeaders() error {
	for i, h := range c.Pipeline.DefaultHeaders {
		if headers.IsContent(h.Name) {
			return fmt.Errorf("pipeline.default_headers[%d]: %s describes a body and can't be a default", i, h.Name)
		}

		value, err := headers.Parse(h.Name, h.Value)
		if err != nil {
			return fmt.Errorf("pipeline.default_headers[%d]: %w", i, err)
		}

		if err = headers.CheckResponse(h.Name, value); err != nil {
			return fmt.Errorf("pipeline.default_headers[%d]: %w", i, err)
		}
	}

	return nil
}

func (c *Config) validateRouteNames() error {
	seen := make(map[string]int, len(c.Routes))

	for i, route := range c.Routes {
		if prev, found := seen[route.Name]; found {
			return fmt.Errorf("routes[%d]: name %q is already used by routes[%d]", i, route.Name, prev)
		}

		seen[route.Name] = i
	}

	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatValidationError(e))
	}

	return errors.New(strings.Join(messages, "; "))
}

func formatValidationError(e validator.FieldError) string {
	field := e.Namespace()

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, e.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	case "excluded_with":
		return fmt.Sprintf("%s can't be set together with %s", field, e.Param())
	case "file":
		return fmt.Sprintf("%s: %q is not an existing file", field, e.Value())
	case "hostname_port":
		return field + " must be a valid host:port"
	case "attribute":
		return fmt.Sprintf("%s: %q is not an attribute", field, e.Value())
	default:
		return fmt.Sprintf("%s failed on %s", field, e.Tag())
	}
}
