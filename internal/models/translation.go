package models

import (
	"strings"
	"unicode/utf8"
)

// KeyMaxLength bounds [Translation] keys.
const KeyMaxLength = 255

// Translation is one localized key/value pair scoped to a site and language.
type Translation struct {
	record
	siteID   string
	key      string
	value    string
	language Language
	keyType  KeyType
}

// NewTranslation creates a Translation owned by siteID.
//
// keyType must come from [ClassifyKey]; it is stored as given.
func NewTranslation(sequence int, siteID, key, value string, language Language, keyType KeyType) *Translation {
	return &Translation{
		record:   newRecord(sequence),
		siteID:   siteID,
		key:      key,
		value:    value,
		language: language,
		keyType:  keyType,
	}
}

func (t *Translation) SiteID() string     { return t.siteID }
func (t *Translation) Key() string        { return t.key }
func (t *Translation) Value() string      { return t.value }
func (t *Translation) Language() Language { return t.language }
func (t *Translation) KeyType() KeyType   { return t.keyType }

func (t *Translation) SetValue(value string) { t.value = value }

// Validate checks stored invariants. The key prefix check lives in [ClassifyKey]; here the stored kind only has to be known.
func (t *Translation) Validate() error {
	v := &ValidationError{}
	if t.siteID == "" {
		v.Add("site", "This field is required.")
	}
	switch {
	case t.key == "":
		v.Add("key", "This field may not be blank.")
	case utf8.RuneCountInString(t.key) > KeyMaxLength:
		v.Add("key", "Ensure this field has no more than 255 characters.")
	case strings.ContainsAny(t.key, "\r\n"):
		v.Add("key", "Key may not contain line breaks.")
	}
	if !t.language.Valid() {
		v.Add("language", "\""+string(t.language)+"\" is not a valid choice.")
	}
	if !t.keyType.Valid() {
		v.Add("key_type", "\""+string(t.keyType)+"\" is not a valid choice.")
	}
	return v.OrNil()
}
