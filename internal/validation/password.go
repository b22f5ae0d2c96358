package validation

import (
	"fmt"
	"unicode"
)

// MinPasswordLength минимальная длина пароля администратора в production.
const MinPasswordLength = 8

// ValidatePassword проверяет пароль администратора:
// не короче MinPasswordLength, есть заглавная, строчная буква и цифра.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("senha deve ter pelo menos %d caracteres", MinPasswordLength)
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("senha deve conter pelo menos uma letra maiúscula")
	}
	if !hasLower {
		return fmt.Errorf("senha deve conter pelo menos uma letra minúscula")
	}
	if !hasNumber {
		return fmt.Errorf("senha deve conter pelo menos um número")
	}

	return nil
}
