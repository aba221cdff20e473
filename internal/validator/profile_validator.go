package validator

import (
	"regexp"
	"strings"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)

type ProfileInput struct {
	Phone      string
	Address    string
	City       string
	Country    string
	PostalCode string
	AvatarURL  string
}

// プロフィール更新の入力を検証。空欄は許可
func ValidateProfile(in ProfileInput) error {
	if p := strings.TrimSpace(in.Phone); p != "" && !phoneRe.MatchString(p) {
		return invalid("phone")
	}
	if len(strings.TrimSpace(in.City)) > 100 {
		return invalid("city")
	}
	if len(strings.TrimSpace(in.Country)) > 100 {
		return invalid("country")
	}
	if len(strings.TrimSpace(in.PostalCode)) > 10 {
		return invalid("postal_code")
	}
	if u := strings.TrimSpace(in.AvatarURL); u != "" {
		if len(u) > 500 || !(strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")) {
			return invalid("avatar_url")
		}
	}
	return nil
}
