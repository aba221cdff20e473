package validator

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9@.+_-]{1,150}$`)
)

// パスワード最低文字数
const MinPasswordLength = 8

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// サインアップの入力を検証。DBの重複チェックはusecase側
func ValidateRegister(in RegisterInput) error {
	if !usernameRe.MatchString(strings.TrimSpace(in.Username)) {
		return invalid("username")
	}
	if !IsEmailLike(in.Email) {
		return invalid("email")
	}
	if len(in.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if isWeakPassword(in.Password) {
		return fmt.Errorf("%w: password is too common", ErrInvalidInput)
	}
	if len(strings.TrimSpace(in.FirstName)) > 30 {
		return invalid("first_name")
	}
	if len(strings.TrimSpace(in.LastName)) > 30 {
		return invalid("last_name")
	}
	return nil
}

// ログインの入力を検証
func ValidateLogin(email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	// email形式
	if !IsEmailLike(email) {
		return ErrInvalidInput
	}

	return nil
}

// 簡易メール形式をチェック
func IsEmailLike(s string) bool {
	s = strings.TrimSpace(s)
	if !emailRe.MatchString(s) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// よくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":    {},
		"password123": {},
		"12345678":    {},
		"123456789":   {},
		"1234567890":  {},
		"qwertyuiop":  {},
		"letmein123":  {},
		"admin123":    {},
	}

	_, ok := weak[normalized]
	return ok
}

func invalid(field string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, field)
}
