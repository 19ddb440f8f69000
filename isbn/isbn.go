// Package isbn normalisiert, prüft und bindestricht ISBN-13-Nummern.
package isbn

import (
	"errors"
	"strings"
)

var (
	ErrInvalid      = errors.New("isbn: not a valid ISBN-13")
	ErrUnknownRange = errors.New("isbn: no hyphenation range for registration group")
)

// Normalize entfernt Bindestriche und Leerzeichen.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// CheckDigit berechnet die Prüfziffer für die ersten 12 Ziffern.
// Gibt -1 zurück, wenn die Eingabe nicht aus 12 Ziffern besteht.
func CheckDigit(first12 string) int {
	if len(first12) != 12 {
		return -1
	}
	sum := 0
	for i, c := range first12 {
		if c < '0' || c > '9' {
			return -1
		}
		d := int(c - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return (10 - sum%10) % 10
}

// Valid meldet, ob s (mit oder ohne Bindestriche) eine gültige ISBN-13 ist.
func Valid(s string) bool {
	n := Normalize(s)
	if len(n) != 13 || !(strings.HasPrefix(n, "978") || strings.HasPrefix(n, "979")) {
		return false
	}
	check := CheckDigit(n[:12])
	return check >= 0 && int(n[12]-'0') == check
}

// Hyphenate gibt die kanonische Form mit Bindestrichen zurück, z.B. 978-7-111-40772-0.
func Hyphenate(s string) (string, error) {
	n := Normalize(s)
	if !Valid(n) {
		return "", ErrInvalid
	}
	prefix, body := n[:3], n[3:12]

	groupLen := lookup(groupRanges[prefix], window(body))
	if groupLen == 0 {
		return "", ErrUnknownRange
	}
	group := body[:groupLen]
	rest := body[groupLen:]

	regLen := lookup(registrantRanges[prefix+"-"+group], window(rest))
	if regLen == 0 || regLen >= len(rest) {
		return "", ErrUnknownRange
	}

	return strings.Join([]string{prefix, group, rest[:regLen], rest[regLen:], n[12:]}, "-"), nil
}

// window liefert die ersten sieben Ziffern, rechts mit Nullen aufgefüllt.
func window(digits string) string {
	if len(digits) >= 7 {
		return digits[:7]
	}
	return digits + strings.Repeat("0", 7-len(digits))
}

func lookup(ranges []rangeRule, w string) int {
	for _, r := range ranges {
		if w >= r.lo && w <= r.hi {
			return r.length
		}
	}
	return 0
}
