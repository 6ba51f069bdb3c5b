package sigv4

import (
	"net/http"
	"sort"
	"strings"
)

const (
	// HeaderHost is the Host header name
	HeaderHost = "Host"

	// HeaderAuthorization is the Authorization header name
	HeaderAuthorization = "Authorization"

	// HeaderXAmzDate is the X-Amz-Date header name for the request timestamp
	HeaderXAmzDate = "X-Amz-Date"
)

// CanonicalizeHeaders creates the canonical headers string over every header in
// the given set. Returns the canonical headers string and the signed headers
// list.
//
// Rules:
//  1. Convert header names to lowercase
//  2. Merge duplicate names into a single line, values comma-joined
//  3. Trim each value and collapse sequential whitespace to a single space
//  4. Sort lines by name (names are already lowercase, so byte order)
//  5. Format as "name:value\n" for each header
//  6. The signed headers list is the same names joined with ';' in the same order
func CanonicalizeHeaders(headers http.Header) (canonical string, signedHeaders string) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	return canonicalizeNamed(headers, names)
}

// CanonicalizeHeadersFor canonicalizes only the given header names. The
// verifier uses this to rebuild the exact header set the signer enumerated.
func CanonicalizeHeadersFor(headers http.Header, names []string) (canonical string, signedHeaders string) {
	return canonicalizeNamed(headers, names)
}

func canonicalizeNamed(headers http.Header, names []string) (canonical string, signedHeaders string) {
	if len(names) == 0 {
		return "", ""
	}

	// Fold values under lowercase names. Distinct map keys that fold to the
	// same name must end up on one merged line, never two, and in a fixed
	// order: map iteration order must never reach the canonical form, or the
	// signature for an identical request would not be stable.
	keysByName := make(map[string][]string)
	for key := range headers {
		lower := strings.ToLower(key)
		keysByName[lower] = append(keysByName[lower], key)
	}

	merged := make(map[string][]string, len(keysByName))
	for lower, keys := range keysByName {
		sort.Strings(keys)
		for _, key := range keys {
			merged[lower] = append(merged[lower], headers[key]...)
		}
	}

	sortedNames := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		lower := strings.ToLower(name)
		if !seen[lower] {
			seen[lower] = true
			sortedNames = append(sortedNames, lower)
		}
	}
	sort.Strings(sortedNames)

	var builder strings.Builder
	for _, name := range sortedNames {
		values := make([]string, 0, len(merged[name]))
		for _, value := range merged[name] {
			values = append(values, normalizeHeaderValue(value))
		}

		builder.WriteString(name)
		builder.WriteString(":")
		builder.WriteString(strings.Join(values, ","))
		builder.WriteString("\n")
	}

	return builder.String(), strings.Join(sortedNames, ";")
}

// normalizeHeaderValue trims whitespace and collapses sequential spaces to a single space
func normalizeHeaderValue(value string) string {
	value = strings.TrimSpace(value)

	var result strings.Builder
	result.Grow(len(value))

	prevSpace := false
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == ' ' || c == '\t' {
			if !prevSpace {
				result.WriteByte(' ')
				prevSpace = true
			}
		} else {
			result.WriteByte(c)
			prevSpace = false
		}
	}

	return result.String()
}

// GetHeaderValue retrieves a header value in a case-insensitive manner
func GetHeaderValue(headers http.Header, name string) string {
	for key, values := range headers {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
