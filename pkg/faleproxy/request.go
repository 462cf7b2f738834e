package faleproxy

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Request is the body accepted by POST /fetch.
type Request struct {
	URL string `json:"url" form:"url" validate:"required"`
}

// Validate trims the target URL and checks that one was supplied.
func (r *Request) Validate() error {
	r.URL = strings.TrimSpace(r.URL)
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Field() == "URL" && fe.Tag() == "required" {
					return &ValidationError{Field: "url", Message: MsgURLRequired}
				}
			}
		}
		return &ValidationError{Field: "url", Message: err.Error()}
	}
	return nil
}
