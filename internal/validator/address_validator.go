package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"projectbazaar/internal/domain/model"
)

var (
	// 入力が不正
	ErrInvalidAddress = errors.New("invalid address")
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	//携帯番号10桁
	phoneRe = regexp.MustCompile(`^[6-9][0-9]{9}$`)

	//PINコード6桁
	postalRe = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidateDeliveryAddress は配送先の構造チェック。
// 注文作成の入口で全項目を確認し、最初に落ちた項目を理由として返す。
func ValidateDeliveryAddress(a model.DeliveryAddress) error {
	required := []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"email", a.Email},
		{"phone", a.Phone},
		{"street", a.Street},
		{"city", a.City},
		{"district", a.District},
		{"state", a.State},
		{"postal_code", a.PostalCode},
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidAddress, f.name)
		}
	}

	if !emailRe.MatchString(strings.TrimSpace(a.Email)) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidAddress)
	}
	if !phoneRe.MatchString(strings.TrimSpace(a.Phone)) {
		return fmt.Errorf("%w: invalid phone format", ErrInvalidAddress)
	}
	if !postalRe.MatchString(strings.TrimSpace(a.PostalCode)) {
		return fmt.Errorf("%w: invalid postal_code format", ErrInvalidAddress)
	}

	return nil
}
