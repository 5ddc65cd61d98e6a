package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and folds violations into a
// single readable message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fields []string
	for _, fe := range err.(validator.ValidationErrors) {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}

	return NewAppError(
		CodeValidationFailed,
		fiber.StatusBadRequest,
		"invalid request: "+strings.Join(fields, ", "),
		err,
	)
}
