// Package personalize substitutes {{Variable}} placeholders in template
// subjects and bodies with per-contact values.
package personalize

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Fallbacks for the three canonical tokens when the contact has no value.
const (
	DefaultName    = "Friend"
	DefaultCompany = "your company"
	DefaultRole    = "professional"
)

// Contact is an explicit field map for one recipient. Keys come from the
// uploaded contact list's header row.
type Contact map[string]string

// Email returns the contact's address, matching the key case-insensitively.
func (c Contact) Email() string {
	if v, ok := c.lookup("email"); ok {
		return v
	}
	return ""
}

// lookup finds a value by case-insensitive key match.
func (c Contact) lookup(key string) (string, bool) {
	if v, ok := c[key]; ok && v != "" {
		return v, true
	}
	for k, v := range c {
		if strings.EqualFold(k, key) && v != "" {
			return v, true
		}
	}
	return "", false
}

// Render replaces every {{Token}} in s. The three canonical tokens match
// case-insensitively and fall back to defaults; any other token resolves
// by exact field name or stays in place literally. Render is total: it
// never fails, whatever the input.
func Render(s string, contact Contact) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		key := strings.TrimSpace(token[2 : len(token)-2])

		switch strings.ToLower(key) {
		case "name":
			if v, ok := contact.lookup("name"); ok {
				return v
			}
			return DefaultName
		case "company":
			if v, ok := contact.lookup("company"); ok {
				return v
			}
			return DefaultCompany
		case "role":
			if v, ok := contact.lookup("role"); ok {
				return v
			}
			return DefaultRole
		}

		if v, ok := contact[key]; ok && v != "" {
			return v
		}
		return token
	})
}

// FindContact returns the contact matching the recipient address, or a
// minimal contact holding only the address when the list has no match.
func FindContact(contacts []Contact, email string) Contact {
	for _, c := range contacts {
		if strings.EqualFold(c.Email(), email) {
			return c
		}
	}
	return Contact{"email": email}
}
