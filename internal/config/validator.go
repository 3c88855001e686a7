package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mediaflow/mediaflow/internal/planner"
	mferrors "github.com/mediaflow/mediaflow/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	operationKinds = map[string]struct{}{
		string(planner.KindDataSource):    {},
		string(planner.KindAudio):         {},
		string(planner.KindTranscription): {},
		string(planner.KindDiarization):   {},
		string(planner.KindOCR):           {},
		string(planner.KindDetection):     {},
		string(planner.KindEmbedding):     {},
	}
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("operation_kind", func(fl validator.FieldLevel) bool {
			_, ok := operationKinds[fl.Field().String()]
			return ok
		})

		validateInst = v
	})

	return validateInst
}

// ValidateConfig performs schema and cross-field validation on the job
// configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return mferrors.NewValidationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	for i, req := range cfg.Outputs {
		if err := validateRequestDepth(req, fmt.Sprintf("outputs[%d]", i), 0); err != nil {
			return err
		}
	}

	return nil
}

// validateRequestDepth bounds source nesting. Ten levels is far beyond any
// real pipeline and catches accidental self-referential configs.
func validateRequestDepth(req OutputRequest, field string, depth int) error {
	if depth > 10 {
		return mferrors.NewValidationError(field, "sources nested deeper than 10 levels", nil)
	}
	for i, src := range req.Sources {
		if err := validateRequestDepth(src, fmt.Sprintf("%s.sources[%d]", field, i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return mferrors.NewValidationError(field, msg, err)
	}

	return mferrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
