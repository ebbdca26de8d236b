package models

import (
	"strings"
	"unicode/utf8"
)

// SiteNameMaxLength bounds [Site] names.
const SiteNameMaxLength = 100

// Site is a namespace owning a set of translations.
type Site struct {
	record
	name        string
	description string
}

// NewSite creates a Site with trimmed name and description. The ID is assigned on persistence.
func NewSite(sequence int, name, description string) *Site {
	return &Site{
		record:      newRecord(sequence),
		name:        strings.TrimSpace(name),
		description: strings.TrimSpace(description),
	}
}

func (s *Site) Name() string        { return s.name }
func (s *Site) Description() string { return s.description }

func (s *Site) SetDescription(description string) { s.description = strings.TrimSpace(description) }

// Validate checks the name constraints. Uniqueness is enforced by the repository.
func (s *Site) Validate() error {
	v := &ValidationError{}
	switch {
	case s.name == "":
		v.Add("name", "This field may not be blank.")
	case utf8.RuneCountInString(s.name) > SiteNameMaxLength:
		v.Add("name", "Ensure this field has no more than 100 characters.")
	case strings.Contains(s.name, ","):
		v.Add("name", "Site names may not contain commas.")
	case strings.ContainsAny(s.name, `/\`):
		v.Add("name", "Site names may not contain path separators.")
	}
	return v.OrNil()
}
