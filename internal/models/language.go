package models

import (
	"fmt"
	"strings"
)

// Language is a two-letter language code from the fixed set supported by the store.
type Language string

const (
	English Language = "EN"
	Spanish Language = "ES"
)

// Languages lists every supported [Language].
var Languages = []Language{English, Spanish}

// ParseLanguage validates code against [Languages]. Matching is case-insensitive; the result is upper case.
func ParseLanguage(code string) (Language, error) {
	lang := Language(strings.ToUpper(strings.TrimSpace(code)))
	if lang.Valid() {
		return lang, nil
	}
	return "", NewValidationError("language", fmt.Sprintf("%q is not a valid choice.", code))
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

func (l Language) String() string { return string(l) }
