package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks a Config against its struct tags plus the cross-field
// rules tags cannot express
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the config struct rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	v.RegisterStructValidation(validateListeners, Config{})
	return &Validator{validate: v}
}

// Validate returns every violation at once, one per line
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		messages = append(messages, describe(e))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

func describe(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got '%v'", field, e.Param(), e.Value())
	case "gtefield", "ltefield":
		return fmt.Sprintf("%s (%v) must be %s %s", field, e.Value(), comparison(e.Tag()), e.Param())
	case "postgres_target":
		return fmt.Sprintf("%s: postgres needs a url or both host and name", field)
	case "distinct_listener":
		return fmt.Sprintf("%s: metrics listener %v collides with the daemon address", field, e.Value())
	default:
		return fmt.Sprintf("%s failed '%s%s' (value: '%v')", field, e.Tag(), param(e.Param()), e.Value())
	}
}

func comparison(tag string) string {
	if tag == "gtefield" {
		return ">="
	}
	return "<="
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

func validateDatabase(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	if db.Type == "postgres" && db.URL == "" && (db.Host == "" || db.Name == "") {
		sl.ReportError(db.URL, "URL", "URL", "postgres_target", "")
	}
}

// The gRPC and metrics servers cannot share a port on the same host
func validateListeners(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if !cfg.Metrics.Enabled {
		return
	}
	host, port, err := net.SplitHostPort(cfg.Daemon.Address)
	if err != nil {
		return
	}
	if port == strconv.Itoa(cfg.Metrics.Port) && (host == cfg.Metrics.Host || host == "" || cfg.Metrics.Host == "") {
		sl.ReportError(cfg.Metrics.Port, "Metrics.Port", "Port", "distinct_listener", "")
	}
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
