// Package validate нормализует контакты, введённые пользователем вручную.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

const countryCode = "7"

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidEmail = errors.New("invalid email")
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// NormalizePhone приводит номер к виду +7XXXXXXXXXX.
// Принимает 11 цифр с 8 или 7 в начале, либо 10 цифр без кода страны
func NormalizePhone(text string) (string, error) {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11 && digits[0] == '8':
		return "+" + countryCode + digits[1:], nil
	case len(digits) == 11 && strings.HasPrefix(digits, countryCode):
		return "+" + digits, nil
	case len(digits) == 10:
		return "+" + countryCode + digits, nil
	}
	return "", ErrInvalidPhone
}

// NormalizeEmail возвращает адрес в нижнем регистре.
// Ключевое слово пропуска проверяет вызывающий код
func NormalizeEmail(text string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(text))
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}
