// Package loader reads author-facing journey YAML and engine-level TOML
// settings from disk, running structural shape validation on the former
// before it ever reaches the compiler's lowering factory.
package loader

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/formengine/internal/definition"
	"github.com/alexisbeaulieu97/formengine/pkg/ferrors"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate

	journeyCodePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("journey_code", func(fl validator.FieldLevel) bool {
			return journeyCodePattern.MatchString(fl.Field().String())
		})
		validatorInst = v
	})
	return validatorInst
}

// journeyShape is the minimal required shape every root journey definition
// must satisfy before internal/ast attempts to lower it, mirroring the
// teacher's "validate the typed struct, then apply custom field rules"
// two-pass idiom (config.ValidateConfig / config.validatorInstance).
type journeyShape struct {
	Path  string `validate:"required"`
	Code  string `validate:"required,journey_code"`
	Steps []any  `validate:"required,min=1"`
}

// ValidateDocumentShape runs structural validation on a decoded Document's
// root journey. Authors get a field-level error ("Code failed on the
// 'journey_code' tag") instead of an opaque lowering failure with no
// context about which required field was missing.
func ValidateDocumentShape(doc *definition.Document) error {
	m, ok := definition.AsMap(doc.Journey)
	if !ok {
		return ferrors.New(ferrors.CodeInvalidNode, "document journey is not a map")
	}

	shape := journeyShape{
		Path:  definition.StringField(m, "path", ""),
		Code:  definition.StringField(m, "code", ""),
		Steps: definition.SliceField(m, "steps"),
	}

	if err := validatorInstance().Struct(shape); err != nil {
		return ferrors.Wrap(ferrors.CodeInvalidNode, "", fmt.Errorf("journey shape: %w", err))
	}
	return nil
}

// LoadJourneyFile reads path, decodes it as a journey Document, and runs
// shape validation before returning it.
func LoadJourneyFile(path string) (*definition.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.CodeInvalidNode, "", fmt.Errorf("read journey file %s: %w", path, err))
	}

	doc, err := definition.LoadYAML(data)
	if err != nil {
		return nil, err
	}

	if err := ValidateDocumentShape(doc); err != nil {
		return nil, err
	}

	return doc, nil
}
