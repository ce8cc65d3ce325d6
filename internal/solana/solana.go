// Package solana recognizes Solana token addresses in free-form text.
package solana

import (
	"regexp"
	"strings"
	"unicode"
)

// alphabet is base58: no 0, O, I or l, so addresses survive being read
// aloud or retyped.
const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Solana addresses are 32 to 44 base58 characters.
const (
	minAddressLen = 32
	maxAddressLen = 44
)

var addressPattern = regexp.MustCompile(`[1-9A-HJ-NP-Za-km-z]{32,44}`)

// IsValidAddress reports whether s looks like a Solana address. This is
// a shape check only; it does not prove the address exists on chain.
func IsValidAddress(s string) bool {
	if len(s) < minAddressLen || len(s) > maxAddressLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

// ExtractAddress returns the first Solana address found in text. Words
// are tried first so "check CA: <address>" resolves without regex work;
// a base58-run scan catches addresses glued to other characters.
func ExtractAddress(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, word := range splitWords(text) {
		if IsValidAddress(word) {
			return word, true
		}
	}
	if m := addressPattern.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

// ExtractAll returns every Solana address found in text, deduplicated,
// in order of first appearance.
func ExtractAll(text string) []string {
	if text == "" {
		return nil
	}
	var (
		addrs []string
		seen  = make(map[string]bool)
	)
	add := func(a string) {
		if !seen[a] {
			seen[a] = true
			addrs = append(addrs, a)
		}
	}
	for _, word := range splitWords(text) {
		if IsValidAddress(word) {
			add(word)
		}
	}
	for _, m := range addressPattern.FindAllString(text, -1) {
		add(m)
	}
	return addrs
}

// Contains reports whether text contains a Solana address.
func Contains(text string) bool {
	_, ok := ExtractAddress(text)
	return ok
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(",;:.!?", r)
	})
}
