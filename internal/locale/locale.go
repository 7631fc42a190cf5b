// Package locale normalizes requested language tags to the two supported variants.
package locale

import "strings"

// Language is one of the supported content languages.
type Language string

const (
	English Language = "en"
	Italian Language = "it"
)

// Default is used when a tag is absent or unrecognized.
const Default = Italian

// Normalize maps a free-form tag ("en-US", "it", "EN_gb") to a supported Language
// by prefix. Anything that is not English falls back to Default.
func Normalize(tag string) Language {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if strings.HasPrefix(tag, string(English)) {
		return English
	}
	return Default
}

// FromAcceptLanguage returns the first entry of an Accept-Language header value.
func FromAcceptLanguage(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.TrimSpace(first)
}

// Pick returns the en value for English and the it value otherwise.
func (l Language) Pick(en, it string) string {
	if l == English {
		return en
	}
	return it
}
