package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/bytes"

	"github.com/gaborage/go-helmet/helmet"
)

var validate = newValidator()

// newValidator reports field paths using koanf keys so errors match config.yaml.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints first, then the rules that span several fields.
// The first failure is returned as a *ConfigError.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fromFieldError(fieldErrs[0])
		}
		return err
	}

	if err := validateServer(&cfg.Server); err != nil {
		return err
	}

	return validateSecurity(&cfg.Security)
}

func fromFieldError(fe validator.FieldError) *ConfigError {
	// Namespace is "Config.security.hsts.maxage"; drop the root type.
	_, field, _ := strings.Cut(fe.Namespace(), ".")

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(field, envVarFor(field), field)
	case "oneof":
		return NewInvalidFieldError(field, fmt.Sprintf("unsupported value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	default:
		return NewValidationError(field, fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param()))
	}
}

func validateServer(cfg *ServerConfig) error {
	if _, err := bytes.Parse(cfg.BodyLimit); err != nil {
		return &ConfigError{
			Category: "invalid",
			Field:    "server.bodylimit",
			Message:  fmt.Sprintf("unsupported size %q", cfg.BodyLimit),
			Action:   "use a number with an optional K, M or G suffix, e.g. 10M",
		}
	}
	return nil
}

func validateSecurity(cfg *SecurityConfig) error {
	if cfg.FrameOptions.Mode == FrameModeAllowFrom && cfg.FrameOptions.AllowFrom == "" {
		return NewMissingFieldError(
			"security.frameoptions.allowfrom",
			envVarFor("security.frameoptions.allowfrom"),
			"security.frameoptions.allowfrom",
		)
	}

	if cfg.XSSProtection.Report != "" && !cfg.XSSProtection.Filter {
		return NewValidationError("security.xssprotection.report", "requires security.xssprotection.filter to be enabled")
	}

	for i, d := range cfg.CSP.Directives {
		if _, err := helmet.ParseDirectiveName(d.Name); err != nil {
			return &ConfigError{
				Category: "invalid",
				Field:    fmt.Sprintf("security.csp.directives[%d].name", i),
				Message:  err.Error(),
				Action:   "use a content-security-policy directive keyword such as default-src or script-src",
			}
		}
	}

	return nil
}
