package utils

import "strings"

const (
	NNILength   = 10
	PhoneLength = 8
)

// IsNNIValid checks the shape of a Mauritanian national identification
// number: exactly ten digits, not all identical.
func IsNNIValid(nni string) bool {
	if len(nni) != NNILength {
		return false
	}

	if !IsOnlyNumbers(nni) {
		return false
	}

	// Reject placeholder values like 0000000000
	return !hasAllSameDigits(nni)
}

// NormalizePhone strips spaces and the +222 country prefix.
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.TrimPrefix(phone, "+222")
	return strings.TrimPrefix(phone, "00222")
}

// IsPhoneValid accepts local 8-digit numbers. Mobile operators use the
// 2, 3 and 4 prefixes.
func IsPhoneValid(phone string) bool {
	phone = NormalizePhone(phone)
	if len(phone) != PhoneLength || !IsOnlyNumbers(phone) {
		return false
	}

	switch phone[0] {
	case '2', '3', '4':
		return true
	default:
		return false
	}
}

// LooksLikePhone decides whether a login identifier is a phone number
// rather than an e-mail.
func LooksLikePhone(identifier string) bool {
	return !strings.Contains(identifier, "@") && IsPhoneValid(identifier)
}

func IsOnlyNumbers(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasAllSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
