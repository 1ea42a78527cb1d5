package utils

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number format")

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// NormalizePhone converts a Kenyan phone number to the canonical
// 254XXXXXXXXX form used by the WhatsApp API. Accepted inputs:
//
//	07XXXXXXXX, 01XXXXXXXX, 254XXXXXXXXX, +254XXXXXXXXX
//
// Anything else is rejected.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)

	switch {
	case len(phone) == 10 && (strings.HasPrefix(phone, "07") || strings.HasPrefix(phone, "01")):
		if !allDigits(phone) {
			return "", ErrInvalidPhone
		}
		return "254" + phone[1:], nil
	case len(phone) == 12 && strings.HasPrefix(phone, "254"):
		if !allDigits(phone) {
			return "", ErrInvalidPhone
		}
		return phone, nil
	case len(phone) == 13 && strings.HasPrefix(phone, "+254"):
		if !allDigits(phone[1:]) {
			return "", ErrInvalidPhone
		}
		return phone[1:], nil
	default:
		return "", ErrInvalidPhone
	}
}
