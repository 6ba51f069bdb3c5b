package sigv4

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CanonicalRequest represents a canonical HTTP request for AWS Signature Version 4
type CanonicalRequest struct {
	// Method is the HTTP method (GET, POST, etc.)
	Method string

	// CanonicalURI is the RFC 3986 encoded URI path
	CanonicalURI string

	// CanonicalQueryString is the sorted, encoded query parameters
	CanonicalQueryString string

	// CanonicalHeaders is the formatted canonical headers string
	CanonicalHeaders string

	// SignedHeaders is the semicolon-separated list of signed header names
	SignedHeaders string

	// PayloadHash is the SHA256 hash of the payload
	PayloadHash string
}

// String returns the canonical request as a string in the AWS SigV4 format:
// HTTPMethod + "\n" +
// CanonicalURI + "\n" +
// CanonicalQueryString + "\n" +
// CanonicalHeaders + "\n" +
// SignedHeaders + "\n" +
// HashedPayload
func (cr *CanonicalRequest) String() string {
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		cr.Method,
		cr.CanonicalURI,
		cr.CanonicalQueryString,
		cr.CanonicalHeaders,
		cr.SignedHeaders,
		cr.PayloadHash,
	)
}

// StringToSign represents the string that will be signed
type StringToSign struct {
	// Algorithm is the signing algorithm (AWS4-HMAC-SHA256)
	Algorithm string

	// RequestDateTime is the ISO8601 timestamp
	RequestDateTime string

	// CredentialScope is the credential scope string
	CredentialScope string

	// HashedCanonicalRequest is the SHA256 hash of the canonical request
	HashedCanonicalRequest string
}

// String returns the string to sign in the AWS SigV4 format:
// Algorithm + "\n" +
// RequestDateTime + "\n" +
// CredentialScope + "\n" +
// HashedCanonicalRequest
func (sts *StringToSign) String() string {
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		sts.Algorithm,
		sts.RequestDateTime,
		sts.CredentialScope,
		sts.HashedCanonicalRequest,
	)
}

// BuildCanonicalRequest builds a canonical request from the request's method,
// URL and the given header set. Every header in the set is signed; the caller
// decides what the set contains (the signer passes the request headers plus the
// host and x-amz-date values it is about to inject).
func BuildCanonicalRequest(req *http.Request, headers http.Header, payloadHash string) *CanonicalRequest {
	canonicalHeaders, signedHeaders := CanonicalizeHeaders(headers)

	return &CanonicalRequest{
		Method:               req.Method,
		CanonicalURI:         EncodeURIPath(req.URL.Path),
		CanonicalQueryString: EncodeQueryValues(req.URL.Query()),
		CanonicalHeaders:     canonicalHeaders,
		SignedHeaders:        signedHeaders,
		PayloadHash:          payloadHash,
	}
}

// BuildStringToSign builds the string to sign from a canonical request
func BuildStringToSign(canonicalReq *CanonicalRequest, service, region string, signTime time.Time) *StringToSign {
	date := FormatSigningDate(signTime)

	return &StringToSign{
		Algorithm:              Algorithm,
		RequestDateTime:        FormatSigningTime(signTime),
		CredentialScope:        BuildCredentialScope(date, region, service),
		HashedCanonicalRequest: ComputeStringHash(canonicalReq.String()),
	}
}

// BuildAuthorizationHeader builds the Authorization header value
// Format: AWS4-HMAC-SHA256 Credential=ACCESS_KEY/SCOPE, SignedHeaders=HEADERS, Signature=SIGNATURE
func BuildAuthorizationHeader(accessKeyID, credentialScope, signedHeaders, signature string) string {
	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		Algorithm,
		accessKeyID,
		credentialScope,
		signedHeaders,
		signature,
	)
}

// ParseAuthorizationHeader parses the Authorization header
// Returns credential (access key ID + scope), signed headers list, and signature
func ParseAuthorizationHeader(authHeader string) (credential, signedHeaders, signature string, err error) {
	if !strings.HasPrefix(authHeader, Algorithm+" ") {
		return "", "", "", ErrInvalidAuthorizationHeader
	}

	remainder := strings.TrimPrefix(authHeader, Algorithm+" ")

	// Intermediaries may reassemble the comma-separated list without the
	// space (legal per the HTTP list syntax), so split on ',' alone and trim.
	rawParts := strings.Split(remainder, ",")
	parts := make([]string, 0, len(rawParts))
	for _, part := range rawParts {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) != 3 {
		return "", "", "", ErrInvalidAuthorizationHeader
	}

	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return "", "", "", ErrInvalidAuthorizationHeader
		}

		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])

		switch key {
		case "Credential":
			credential = value
		case "SignedHeaders":
			signedHeaders = value
		case "Signature":
			signature = value
		default:
			return "", "", "", fmt.Errorf("%w: unknown key %q", ErrInvalidAuthorizationHeader, key)
		}
	}

	if credential == "" || signedHeaders == "" || signature == "" {
		return "", "", "", ErrInvalidAuthorizationHeader
	}

	return credential, signedHeaders, signature, nil
}

// ParseCredential parses the credential string from the Authorization header
// Format: ACCESS_KEY_ID/DATE/REGION/SERVICE/aws4_request
// Returns access key ID and credential scope
func ParseCredential(credential string) (accessKeyID, scope string, err error) {
	idx := strings.IndexByte(credential, '/')
	if idx == -1 {
		return "", "", fmt.Errorf("invalid credential format: no scope separator")
	}

	accessKeyID = credential[:idx]
	scope = credential[idx+1:]

	if accessKeyID == "" || scope == "" {
		return "", "", fmt.Errorf("invalid credential format: empty access key ID or scope")
	}

	return accessKeyID, scope, nil
}
