package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError содержит карту ошибок "поле" -> "сообщение"
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errMsgs := make([]string, 0, len(fields))
	for _, field := range fields {
		errMsgs = append(errMsgs, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "Validation failed: " + strings.Join(errMsgs, "; ")
}

// MessageProvider реализуют DTO, которым нужны собственные тексты ошибок.
// Ключи: "поле.тег" (точнее) или "поле".
type MessageProvider interface {
	ValidationMessages() map[string]string
}

// Validator - обертка над go-playground/validator
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Имена полей в ошибках берем из json/form тегов DTO
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	registerCustomRules(v)

	return &Validator{
		validate: v,
	}
}

// Validate возвращает *ValidationError, если структура не прошла проверку
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages map[string]string
	if mp, ok := i.(MessageProvider); ok {
		messages = mp.ValidationMessages()
	}

	customErrors := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		if _, seen := customErrors[field]; seen {
			continue
		}
		customErrors[field] = messageFor(messages, fe)
	}

	return &ValidationError{Errors: customErrors}
}

// FieldMessage - текст для поля вне go-playground (например, ошибка типа при биндинге)
func FieldMessage(i interface{}, field string) string {
	if mp, ok := i.(MessageProvider); ok {
		if msg, ok := mp.ValidationMessages()[field]; ok {
			return msg
		}
	}
	return "Invalid value type"
}

func messageFor(messages map[string]string, fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return defaultMessage(fe)
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "password-policy":
		return "Password must contain at least one uppercase letter and one special character"
	case "is-user-role":
		return "Role must be admin, user, or owner"
	case "store-sort":
		return "Sort must be one of: name, created_at, rating"
	case "sort-order":
		return "Order must be asc or desc"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
