package models

import (
	"strings"
)

// KeyType classifies a translation into the file kind it is exported to.
type KeyType string

const (
	Template   KeyType = "TPL" // keys prefixed with "//", exported to .tpl files
	Initialize KeyType = "INI" // keys prefixed with "__", exported to .ini files
)

const (
	TemplatePrefix   = "//"
	InitializePrefix = "__"
)

// KeyTypes lists the file kinds in export order.
var KeyTypes = []KeyType{Template, Initialize}

const keyPrefixMessage = "Key must start with '//' for TPL type or '__' for INI type"

// ClassifyKey derives the [KeyType] of a translation key from its prefix.
//
// Keys without a recognized prefix yield a [*ValidationError] on the "key" field.
func ClassifyKey(key string) (KeyType, error) {
	switch {
	case strings.HasPrefix(key, TemplatePrefix):
		return Template, nil
	case strings.HasPrefix(key, InitializePrefix):
		return Initialize, nil
	default:
		return "", NewValidationError("key", keyPrefixMessage)
	}
}

// Valid reports whether k is one of the known kinds.
func (k KeyType) Valid() bool {
	return k == Template || k == Initialize
}

// Label returns the human-readable name of the kind.
func (k KeyType) Label() string {
	switch k {
	case Template:
		return "Template"
	case Initialize:
		return "Initialize"
	default:
		return ""
	}
}
