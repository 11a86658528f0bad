package recipe

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/panpapadopoulos/cooking/internal/core/units"
)

// Validator checks a recipe before it reaches a store.
type Validator struct {
	v        *validator.Validate
	registry *units.Registry
}

// NewValidator builds a validator that resolves units against reg.
func NewValidator(reg *units.Registry) *Validator {
	v := validator.New()

	// report JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	val := &Validator{v: v, registry: reg}
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("recipe: register notblank validation: %v", err))
	}
	v.RegisterStructValidation(val.recipeLevel, Recipe{})
	v.RegisterStructValidation(val.ingredientLevel, Ingredient{})
	return val
}

// Validate returns a *ValidationError describing every failing field.
func (v *Validator) Validate(r *Recipe) error {
	if r == nil {
		return &ValidationError{Fields: map[string]string{"recipe": "is required"}}
	}
	if err := v.v.Struct(r); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) recipeLevel(sl validator.StructLevel) {
	r := sl.Current().Interface().(Recipe)
	if lang, ok := r.TranslatedLanguage.Get(); ok && !lang.Valid() {
		sl.ReportError(lang, "translatedLanguage", "TranslatedLanguage", "oneof", "el en")
	}
	if len(r.TranslatedInstructions) > len(r.Instructions) {
		sl.ReportError(r.TranslatedInstructions, "translatedInstructions", "TranslatedInstructions", "maxlen", "instructions")
	}
}

func (v *Validator) ingredientLevel(sl validator.StructLevel) {
	ing := sl.Current().Interface().(Ingredient)
	if ing.Unit != nil {
		if _, ok := v.registry.Lookup(*ing.Unit); !ok {
			sl.ReportError(*ing.Unit, "unit", "Unit", "unit", "")
		}
	}
	if ing.Quantity != nil && *ing.Quantity <= 0 {
		sl.ReportError(*ing.Quantity, "quantity", "Quantity", "gt", "0")
	}
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[fieldPath(e.Namespace())] = friendlyMessage(e)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s entries", e.Param())
	case "gt":
		return "must be greater than " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "unit":
		return fmt.Sprintf("%q is not a known unit", e.Value())
	case "maxlen":
		return "must not be longer than " + e.Param()
	default:
		return "is invalid"
	}
}
