package lava

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	lavaWalletPattern = regexp.MustCompile(`^R\d{8}$`)
	bankCardPattern   = regexp.MustCompile(`^\d{16}$`)
)

// IsLavaWallet reports whether s is a Lava wallet number: R followed by 8 digits.
func IsLavaWallet(s string) bool {
	return lavaWalletPattern.MatchString(s)
}

// StripWhitespace removes every whitespace rune from s.
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsBankCard reports whether s holds exactly 16 digits once whitespace is removed.
func IsBankCard(s string) bool {
	return bankCardPattern.MatchString(StripWhitespace(s))
}

func ValidateLavaWallet(walletID string) error {
	if !IsLavaWallet(walletID) {
		return fmt.Errorf("%w: wallet %q does not match R00000000", ErrValidation, walletID)
	}
	return nil
}

func ValidateBankCard(bankCard string) error {
	if !IsBankCard(bankCard) {
		return fmt.Errorf("%w: card number does not match 0000000000000000", ErrValidation)
	}
	return nil
}
