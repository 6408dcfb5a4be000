// Package validation checks configuration values before they are used.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report failures as
// *Error, which lists every offending field.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    BaseURL string `yaml:"base_url" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Positive("request_timeout", cfg.RequestTimeout)
//	err := v.Validate()
package validation
