package action

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/felixgeelhaar/groupctl/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// "required" alone accepts whitespace-only strings; membership
	// identifiers must survive trimming.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// jsonFields maps struct field names to the wire names used in error messages
var jsonFields = map[string]string{
	"GroupID":      "groupId",
	"UserID":       "userId",
	"AuthMethodID": "authMethodId",
}

// Validate checks the request fields in declaration order and reports the
// first offending field by its wire name. Fatal: a request that fails
// validation will fail identically on every re-run.
func (r *RemovalRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Classify(err)
	}

	field := verrs[0].StructField()
	if wire, ok := jsonFields[field]; ok {
		field = wire
	}
	return apperrors.NewValidationError(field)
}
