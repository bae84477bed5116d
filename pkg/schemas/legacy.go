package schemas

import (
	"net/url"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address.
//
// Deprecated: validate with CreateUserSchema or the email tag instead.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidURL reports whether s parses as an absolute URL.
//
// Deprecated: validate with the url tag instead.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "" || u.Path != "")
}

// IsValidCPF checks the CPF check digits, ignoring any punctuation.
//
// Deprecated: validate with the cpf tag instead.
func IsValidCPF(s string) bool {
	digits := onlyDigits(s)
	if len(digits) != 11 || repeated(digits) {
		return false
	}
	for check := 9; check <= 10; check++ {
		sum := 0
		for i := 0; i < check; i++ {
			sum += int(digits[i]-'0') * (check + 1 - i)
		}
		digit := 11 - sum%11
		if digit >= 10 {
			digit = 0
		}
		if digit != int(digits[check]-'0') {
			return false
		}
	}
	return true
}

// IsValidCNPJ checks the CNPJ check digits, ignoring any punctuation.
//
// Deprecated: validate with the cnpj tag instead.
func IsValidCNPJ(s string) bool {
	digits := onlyDigits(s)
	if len(digits) != 14 || repeated(digits) {
		return false
	}
	for check := 12; check <= 13; check++ {
		sum, weight := 0, check-7
		for i := 0; i < check; i++ {
			sum += int(digits[i]-'0') * weight
			weight--
			if weight < 2 {
				weight = 9
			}
		}
		digit := 0
		if sum%11 >= 2 {
			digit = 11 - sum%11
		}
		if digit != int(digits[check]-'0') {
			return false
		}
	}
	return true
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func repeated(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}
