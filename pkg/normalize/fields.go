package normalize

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ZIPWidth is the fixed width of a normalized ZIP code.
const ZIPWidth = 5

// NormalizeZIP left-pads zip with '0' to ZIPWidth characters. Longer values
// are returned unchanged and the content is not checked to be digits.
func NormalizeZIP(zip string) string {
	n := utf8.RuneCountInString(zip)
	if n >= ZIPWidth {
		return zip
	}
	return strings.Repeat("0", ZIPWidth-n) + zip
}

// NormalizeZIPInt pads an integer ZIP code.
func NormalizeZIPInt(zip int) string {
	return NormalizeZIP(strconv.Itoa(zip))
}

// NormalizeName uppercases name with full Unicode case mapping.
func NormalizeName(name string) string {
	// A Caser holds state, so each call gets its own.
	return cases.Upper(language.Und).String(name)
}

// NormalizeAddress passes the address through. Invalid UTF-8 has already
// been replaced by the reader.
func NormalizeAddress(addr string) string {
	return addr
}

// NormalizeNotes passes the notes through.
func NormalizeNotes(notes string) string {
	return notes
}
