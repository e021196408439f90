package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"taskManager/internal/service"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках используем имена полей из JSON
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeAndValidate читает JSON тело и проверяет теги validate
func decodeAndValidate(w http.ResponseWriter, r *http.Request, payload any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(payload); err != nil {
		busErr := service.NewBusinessError(service.CodeValidation, "неверное тело запроса",
			service.ToDetail("reason", err.Error()))
		busErr.Err = err
		return busErr
	}

	if err := validate.Struct(payload); err != nil {
		return validationToBusinessError(err)
	}
	return nil
}

func validationToBusinessError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return service.NewInternal("validate", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = describeValidation(fieldErr)
	}

	busErr := service.NewBusinessError(service.CodeValidation, "ошибка валидации",
		service.ToDetail("fields", fields))
	busErr.Err = err
	return busErr
}

func describeValidation(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "поле обязательно"
	case "max":
		return fmt.Sprintf("не длиннее %s символов", fieldErr.Param())
	case "email":
		return "некорректный email"
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", fieldErr.Param())
	case "gt":
		return fmt.Sprintf("должно быть больше %s", fieldErr.Param())
	default:
		return fieldErr.Tag()
	}
}
