package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// Algorithm is the AWS Signature Version 4 algorithm identifier
	Algorithm = "AWS4-HMAC-SHA256"

	// TimeFormat is the ISO8601 basic format used for the X-Amz-Date header
	TimeFormat = "20060102T150405Z"

	// DateFormat is the date format used for the credential scope
	DateFormat = "20060102"

	// AWS4Request is the termination string for the credential scope
	AWS4Request = "aws4_request"
)

// DeriveSigningKey derives the request-scoped signing key using the AWS
// Signature Version 4 HMAC-SHA256 chain:
//
//	kDate    = HMAC-SHA256("AWS4" + secret, date)
//	kRegion  = HMAC-SHA256(kDate, region)
//	kService = HMAC-SHA256(kRegion, service)
//	kSigning = HMAC-SHA256(kService, "aws4_request")
//
// Each step keys the next with the previous step's raw MAC output. Hex-encoding
// an intermediate value produces wrong signatures with no error signal, so
// nothing here is encoded until ComputeSignature.
func DeriveSigningKey(secret, date, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), []byte(date))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte(AWS4Request))
}

// hmacSHA256 computes HMAC-SHA256 of data using the provided key.
// A fresh MAC context is created per call so concurrent signers never share
// hash state.
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// ComputeSignature computes the signature for the given string to sign
// using the provided signing key. Returns the signature as a lowercase hex string.
func ComputeSignature(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))
}

// ComputePayloadHash computes the SHA256 hash of the request payload bytes
// and returns it as a lowercase hex string. A nil or empty payload yields the
// well-known empty-body digest.
func ComputePayloadHash(payload []byte) string {
	h := sha256.Sum256(payload)
	return hex.EncodeToString(h[:])
}

// ComputeStringHash computes the SHA256 hash of a string
// and returns it as a lowercase hex string
func ComputeStringHash(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}

// FormatSigningTime formats a time value into the ISO8601 basic format
// used in AWS Signature Version 4: YYYYMMDDTHHMMSSZ
func FormatSigningTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// FormatSigningDate formats a time value into the date format
// used in the credential scope: YYYYMMDD
func FormatSigningDate(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// ParseSigningTime parses a timestamp in ISO8601 basic format
func ParseSigningTime(timestamp string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	return t, nil
}

// VerifySignature performs constant-time comparison of two signatures
// to prevent timing attacks
func VerifySignature(expected, actual string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}

// BuildCredentialScope builds the credential scope string
// Format: YYYYMMDD/region/service/aws4_request
func BuildCredentialScope(date, region, service string) string {
	return fmt.Sprintf("%s/%s/%s/%s", date, region, service, AWS4Request)
}

// ParseCredentialScope parses a credential scope string into its components
// Returns date, region, service, and an error if parsing fails
func ParseCredentialScope(scope string) (date, region, service string, err error) {
	parts := splitScope(scope)
	if len(parts) != 4 {
		return "", "", "", fmt.Errorf("invalid credential scope format: expected 4 parts, got %d", len(parts))
	}

	if parts[3] != AWS4Request {
		return "", "", "", fmt.Errorf("invalid credential scope: expected terminator %q, got %q", AWS4Request, parts[3])
	}

	return parts[0], parts[1], parts[2], nil
}

// splitScope splits a credential scope by '/' delimiter
func splitScope(scope string) []string {
	var parts []string
	start := 0

	for i := 0; i < len(scope); i++ {
		if scope[i] == '/' {
			parts = append(parts, scope[start:i])
			start = i + 1
		}
	}

	if start < len(scope) {
		parts = append(parts, scope[start:])
	}

	return parts
}
