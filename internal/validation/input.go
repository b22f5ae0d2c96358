package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации, соответствуют размерам колонок в БД
const (
	MaxNomeLength     = 255
	MaxPatenteLength  = 50
	MaxPrefixoLength  = 50
	MaxTextoLength    = 10000
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MaxDinheiro       = 999999999999.99 // NUMERIC(14,2)
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s deve ter pelo menos %d caracteres", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s deve ter no máximo %d caracteres", fieldName, max)
	}
	return nil
}

// ValidateUsername проверяет логин администратора.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("usuário é obrigatório")
	}

	if err := ValidateLength("usuário", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("usuário pode conter apenas letras, números, ponto e sublinhado")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("usuário não pode começar com número")
	}

	return nil
}
