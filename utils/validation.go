package utils

import (
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"reflect"
	"strings"

	"catalog-backend/apperr"
	"catalog-backend/assets"

	"github.com/go-playground/validator/v10"
)

// ReadUpload loads a multipart image into memory. Reading stops one byte past
// assets.MaxImageSize so oversized files are still rejected by the gateway.
func ReadUpload(fh *multipart.FileHeader) (assets.Upload, error) {
	if fh.Size > assets.MaxImageSize {
		return assets.Upload{}, apperr.Validation("image", fmt.Sprintf("file size %d bytes exceeds maximum allowed size of 5MB", fh.Size))
	}

	file, err := fh.Open()
	if err != nil {
		return assets.Upload{}, apperr.Validation("image", "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, assets.MaxImageSize+1))
	if err != nil {
		return assets.Upload{}, apperr.Validation("image", "unreadable file")
	}

	return assets.Upload{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

// NewValidator returns a validator that also knows the "finite" tag, which
// rejects NaN and infinite floats.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("finite", finite); err != nil {
		panic(err)
	}
	return v
}

func finite(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		return !math.IsNaN(f.Float()) && !math.IsInf(f.Float(), 0)
	}
	return true
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			if fe.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
			}
		case "max":
			if fe.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
			}
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be %s or greater", field, fe.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be %s or less", field, fe.Param()))
		case "finite":
			messages = append(messages, fmt.Sprintf("%s must be a finite number", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}

// ValidationField returns the lower-cased name of the first failing field, or "".
func ValidationField(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		return strings.ToLower(validationErrors[0].Field())
	}
	return ""
}
