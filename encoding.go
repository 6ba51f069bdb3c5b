package sigv4

import (
	"net/url"
	"sort"
	"strings"
)

// isURIUnreserved returns true if the byte is an unreserved character according to RFC 3986
// Unreserved characters: A-Z a-z 0-9 - _ . ~
func isURIUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' ||
		c == '_' ||
		c == '.' ||
		c == '~'
}

// EncodeURIPath encodes a URI path for the canonical request. The path is split
// on '/', each segment is percent-encoded individually, and the segments are
// rejoined, so the '/' separators survive untouched and empty segments are
// preserved as-is. An empty path canonicalizes to "/".
func EncodeURIPath(path string) string {
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = encodeRFC3986(segment)
	}

	return strings.Join(segments, "/")
}

// encodeRFC3986 percent-encodes every byte outside the RFC 3986 unreserved set,
// using uppercase hex. net/url escaping cannot be used here: it leaves sub-delims
// alone and encodes space as '+', both of which break signature verification.
func encodeRFC3986(s string) string {
	var encoded strings.Builder
	encoded.Grow(len(s) * 2)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if isURIUnreserved(c) {
			encoded.WriteByte(c)
		} else {
			encoded.WriteByte('%')
			encoded.WriteByte(uppercaseHex(c >> 4))
			encoded.WriteByte(uppercaseHex(c & 0x0F))
		}
	}

	return encoded.String()
}

// uppercaseHex returns the uppercase hexadecimal character for a 4-bit value
func uppercaseHex(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'A' + b - 10
}

// EncodeQueryValue encodes a single query parameter name or value according to
// RFC 3986. This is used for canonical query string construction.
func EncodeQueryValue(value string) string {
	return encodeRFC3986(value)
}

// EncodeQueryValues encodes URL query parameters into a canonical query string.
// A value containing commas is treated as multiple independent values, each
// sorted on its own. Values are sorted ascending per key before encoding; the
// resulting key=value entries are ordered byte-wise by encoded key, with a
// repeated key's entries kept in that pre-encoding value order. Entries are
// joined with '&'; an absent query yields "".
func EncodeQueryValues(values url.Values) string {
	if len(values) == 0 {
		return ""
	}

	type entry struct {
		key   string
		value string
	}

	var entries []entry
	for key, vals := range values {
		encodedKey := EncodeQueryValue(key)

		expanded := make([]string, 0, len(vals))
		for _, val := range vals {
			expanded = append(expanded, strings.Split(val, ",")...)
		}
		sort.Strings(expanded)

		for _, val := range expanded {
			entries = append(entries, entry{key: encodedKey, value: EncodeQueryValue(val)})
		}
	}

	// Stable sort on the encoded key only: entries for a repeated key were
	// appended in raw value order, and encoding must not reorder them (the raw
	// and encoded byte orders disagree for values like "z" vs "{").
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.key + "=" + e.value
	}

	return strings.Join(parts, "&")
}
