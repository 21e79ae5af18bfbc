package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report fields under their JSON name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToJson renders validation errors as a {"field": "tag"} JSON object.
// Any other error is reported under the "_" key.
func ErrorsToJson(validationErrs error) (string, error) {
	errsMap := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if errors.As(validationErrs, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			errsMap[fieldErr.Field()] = fieldErr.Tag()
		}
	} else if validationErrs != nil {
		errsMap["_"] = validationErrs.Error()
	}

	errsJson, err := json.Marshal(errsMap)
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
