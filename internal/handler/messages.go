package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Client-facing messages for the user and role endpoints. The auth
// catalog lives in the auth package; these cover CRUD outcomes and
// request validation.
const (
	msgUserEmailExists     = "Пользователь с таким email уже существует"
	msgUserNotFound        = "Пользователь не найден"
	msgUserNotFoundByEmail = "Пользователь с указанным email не найден"
	msgInvalidEmail        = "Некорректный формат email"
	msgInvalidName         = "Имя и фамилия должны содержать только буквы русского или английского алфавита и дефис"
	msgWeakPassword        = "Пароль должен содержать минимум 8 символов, включая заглавную и строчную буквы и цифру"
	msgPasswordMismatch    = "Пароли не совпадают"
	msgInvalidBody         = "Некорректное тело запроса"
	msgRoleNotFound        = "Роль с id %d не найдена"
)

// validationMessage picks the catalog message for the first failed
// field of a validation error. Field names follow the DTO structs in
// this package.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Field() {
			case "Email":
				return msgInvalidEmail
			case "FirstName", "LastName":
				return msgInvalidName
			case "RepeatPassword":
				return msgPasswordMismatch
			case "Password":
				return msgWeakPassword
			}
		}
	}
	return msgInvalidBody
}
