package sigv4

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Verifier verifies HTTP request signatures using AWS Signature Version 4
type Verifier struct {
	credentialStore CredentialStore
	options         *VerifierOptions
}

// NewVerifier creates a new Verifier with the given credential store and options
func NewVerifier(store CredentialStore, opts ...VerifierOption) *Verifier {
	return &Verifier{
		credentialStore: store,
		options:         applyVerifierOptions(opts...),
	}
}

// VerificationResult represents the result of signature verification
type VerificationResult struct {
	// Valid indicates whether the signature is valid
	Valid bool

	// AccessKeyID is the access key ID extracted from the request
	AccessKeyID string

	// SignedHeaders is the list of headers that were signed
	SignedHeaders []string

	// RequestTime is the timestamp from the request
	RequestTime time.Time

	// Service is the service name from the credential scope
	Service string

	// Region is the region from the credential scope
	Region string

	// Error contains any error that occurred during verification
	Error error
}

// Verify verifies the signature of an HTTP request by re-running the signing
// pipeline over the headers enumerated in the Authorization header and
// comparing signatures in constant time.
func (v *Verifier) Verify(ctx context.Context, req *http.Request) (*VerificationResult, error) {
	result := &VerificationResult{}

	if req == nil {
		result.Error = ErrNilRequest
		return result, result.Error
	}

	authHeader := req.Header.Get(HeaderAuthorization)
	if authHeader == "" {
		result.Error = ErrMissingAuthorizationHeader
		return result, result.Error
	}

	credential, signedHeadersList, providedSignature, err := ParseAuthorizationHeader(authHeader)
	if err != nil {
		result.Error = &VerificationError{
			Reason: "invalid authorization header",
			Err:    err,
		}
		return result, result.Error
	}

	accessKeyID, scope, err := ParseCredential(credential)
	if err != nil {
		result.Error = &VerificationError{
			Reason: "invalid credential format",
			Err:    err,
		}
		return result, result.Error
	}
	result.AccessKeyID = accessKeyID

	date, region, service, err := ParseCredentialScope(scope)
	if err != nil {
		result.Error = &VerificationError{
			Reason: "invalid credential scope",
			Err:    err,
		}
		return result, result.Error
	}
	result.Region = region
	result.Service = service

	timestamp := req.Header.Get(HeaderXAmzDate)
	if timestamp == "" {
		result.Error = &VerificationError{
			Reason: "missing X-Amz-Date header",
			Err:    ErrMissingRequiredHeader,
		}
		return result, result.Error
	}

	requestTime, err := ParseSigningTime(timestamp)
	if err != nil {
		result.Error = &VerificationError{
			Reason: "invalid timestamp format",
			Err:    err,
		}
		return result, result.Error
	}
	result.RequestTime = requestTime

	if err := v.validateTimestamp(requestTime); err != nil {
		result.Error = &VerificationError{
			Reason: "timestamp out of range",
			Err:    err,
		}
		return result, result.Error
	}

	// The scope date must match the request timestamp; a derived key is only
	// valid within its credential scope.
	requestDate := FormatSigningDate(requestTime)
	if date != requestDate {
		result.Error = &VerificationError{
			Reason: fmt.Sprintf("credential scope date %s does not match request date %s", date, requestDate),
			Err:    ErrInvalidAuthorizationHeader,
		}
		return result, result.Error
	}

	creds, err := v.credentialStore.GetCredentials(ctx, accessKeyID)
	if err != nil {
		result.Error = &VerificationError{
			Reason: "credential lookup failed",
			Err:    err,
		}
		return result, result.Error
	}

	signedHeaders := splitSignedHeaders(signedHeadersList)
	result.SignedHeaders = signedHeaders

	payloadHash, err := v.computePayloadHash(req)
	if err != nil {
		result.Error = &VerificationError{
			Reason: "failed to compute payload hash",
			Err:    err,
		}
		return result, result.Error
	}

	canonicalReq := v.buildCanonicalRequest(req, payloadHash, signedHeaders)
	stringToSign := BuildStringToSign(canonicalReq, service, region, requestTime)

	signingKey := DeriveSigningKey(creds.SecretAccessKey, date, region, service)
	expectedSignature := ComputeSignature(signingKey, stringToSign.String())

	if !VerifySignature(expectedSignature, providedSignature) {
		result.Error = &VerificationError{
			Reason: "signature mismatch",
			Err:    ErrInvalidSignature,
		}
		return result, result.Error
	}

	result.Valid = true
	return result, nil
}

// splitSignedHeaders splits the signed-headers list, dropping empty names so a
// stray or trailing ';' never produces an empty header name downstream
func splitSignedHeaders(list string) []string {
	parts := strings.Split(list, ";")
	names := parts[:0]
	for _, name := range parts {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// validateTimestamp checks if the request timestamp is within acceptable drift
func (v *Verifier) validateTimestamp(requestTime time.Time) error {
	currentTime := time.Now().UTC()
	if v.options.OverrideCurrentTime != nil {
		currentTime = *v.options.OverrideCurrentTime
	}

	drift := currentTime.Sub(requestTime)
	if drift < 0 {
		drift = -drift
	}

	if drift > v.options.MaxTimestampDrift {
		return ErrTimestampOutOfRange
	}

	return nil
}

// computePayloadHash computes the hash of the request payload
func (v *Verifier) computePayloadHash(req *http.Request) (string, error) {
	if req.Body == nil {
		return ComputePayloadHash(nil), nil
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}

	// Restore the body so the handler can still read it
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	return ComputePayloadHash(bodyBytes), nil
}

// buildCanonicalRequest rebuilds the canonical request using exactly the signed
// headers listed in the Authorization header. Server-side requests keep the
// Host value on req.Host rather than in the header map, so it is folded back in
// before canonicalization.
func (v *Verifier) buildCanonicalRequest(req *http.Request, payloadHash string, signedHeaders []string) *CanonicalRequest {
	headers := req.Header
	if GetHeaderValue(headers, HeaderHost) == "" && req.Host != "" {
		headers = cloneHeader(headers)
		headers.Set(HeaderHost, req.Host)
	}

	canonicalHeaders, signedHeadersList := CanonicalizeHeadersFor(headers, signedHeaders)

	return &CanonicalRequest{
		Method:               req.Method,
		CanonicalURI:         EncodeURIPath(req.URL.Path),
		CanonicalQueryString: EncodeQueryValues(req.URL.Query()),
		CanonicalHeaders:     canonicalHeaders,
		SignedHeaders:        signedHeadersList,
		PayloadHash:          payloadHash,
	}
}
