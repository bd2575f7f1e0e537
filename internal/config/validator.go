package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"
)

//go:embed schema.cue
var schemaCUE []byte

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validator validates settings against the embedded CUE schema plus the
// checks CUE cannot express.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath("#Settings"))
	if !def.Exists() {
		return nil, fmt.Errorf("schema has no #Settings definition")
	}

	return &Validator{ctx: ctx, schema: def}, nil
}

// Validate returns ValidationErrors describing everything wrong with s.
func (v *Validator) Validate(s *Settings) error {
	var errs ValidationErrors

	value := v.schema.Unify(v.ctx.Encode(s))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			format, args := e.Msg()
			errs = append(errs, ValidationError{
				Field:   fieldPath(e.Path()),
				Message: fmt.Sprintf(format, args...),
			})
		}
	}

	if s.ContainerMemory != "" {
		if _, err := resource.ParseQuantity(s.ContainerMemory); err != nil {
			errs = append(errs, ValidationError{
				Field:   "containerMemory",
				Message: fmt.Sprintf("must be a quantity such as 0.5Gi: %v", err),
			})
		}
	}

	// The router's DNS relative name joins application and environment.
	if s.ApplicationName != "" && s.Environment != "" {
		for _, msg := range validation.IsDNS1123Label(s.ApplicationName + "-" + s.Environment) {
			errs = append(errs, ValidationError{
				Field:   "applicationName",
				Message: "with environment suffix " + msg,
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fieldPath(path []string) string {
	if len(path) > 0 && path[0] == "#Settings" {
		path = path[1:]
	}
	if len(path) == 0 {
		return "settings"
	}
	return strings.Join(path, ".")
}
