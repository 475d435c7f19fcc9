package config

import (
	"codeextract/internal/core/errors"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()
		validatorInstance.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("toml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validatorInstance
}

// Validate checks field constraints first and then the rules spanning
// several fields.
func Validate(cfg *Config) error {
	if err := validateStruct(cfg); err != nil {
		return err
	}
	if err := validateTemplate(cfg); err != nil {
		return err
	}
	if err := validateSources(cfg); err != nil {
		return err
	}
	if err := validateExclude(cfg); err != nil {
		return err
	}
	return validateWatch(cfg)
}

func validateStruct(cfg *Config) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(err, errors.CodeValidation, "invalid config")
	}
	first := fieldErrs[0]
	field := strings.TrimPrefix(first.Namespace(), "Config.")
	msg := fmt.Sprintf("%s failed %q check", field, first.Tag())
	if first.Param() != "" {
		msg = fmt.Sprintf("%s failed %q check (%s)", field, first.Tag(), first.Param())
	}
	return errors.AddContext(errors.New(errors.CodeValidation, msg), errors.CtxSymbol, field)
}

func validateTemplate(cfg *Config) error {
	if cfg.Skip {
		return nil
	}
	if cfg.Template == "" {
		return errors.New(errors.CodeValidation, "template must not be empty unless skip is set")
	}
	return nil
}

func validateSources(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Sources))
	outputs := make(map[string]string, len(cfg.Sources))
	for _, source := range cfg.Sources {
		if source == "" {
			return errors.New(errors.CodeValidation, "sources must not contain empty entries")
		}
		if seen[source] {
			return errors.AddContext(errors.New(errors.CodeValidation, fmt.Sprintf("duplicate source %q", source)), errors.CtxGroup, source)
		}
		seen[source] = true

		name := OutputName(source, cfg.Output.Extension)
		if other, ok := outputs[name]; ok {
			return errors.New(errors.CodeValidation, fmt.Sprintf("sources %q and %q publish to the same file %q", other, source, name))
		}
		outputs[name] = source
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, pattern := range cfg.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeValidation, fmt.Sprintf("invalid exclude pattern %q", pattern)), errors.CtxSymbol, "exclude")
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return errors.New(errors.CodeValidation, "watch.debounce must not be negative")
	}
	return nil
}
