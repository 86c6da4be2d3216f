package normalize

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Lower returns s in NFC form, lowercased with full Unicode case mapping.
// Tags and search tokens both go through here so that a tag stored by the
// loader always matches a query typed in any case.
func Lower(s string) string {
	// cases.Caser keeps state between calls and is not safe to share.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
