package sigv4

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Signer signs HTTP requests using AWS Signature Version 4. It is bound to one
// credential pair for its lifetime and is safe for concurrent use.
type Signer struct {
	creds   Credentials
	options *SignerOptions
}

// NewSigner creates a new Signer with the given credentials and options.
// Credentials with an empty access key ID or secret are rejected here, not at
// signing time.
func NewSigner(creds *Credentials, opts ...SignerOption) (*Signer, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	return &Signer{
		creds:   *creds,
		options: applySignerOptions(opts...),
	}, nil
}

// SignedRequest describes the outcome of signing a request
type SignedRequest struct {
	// Request is the signed HTTP request (the same request passed to Sign)
	Request *http.Request

	// Signature is the computed signature
	Signature string

	// SignedHeaders is the list of headers included in the signature
	SignedHeaders string

	// CredentialScope is the credential scope string
	CredentialScope string

	// SigningTime is the time used for signing
	SigningTime time.Time
}

// Sign signs an HTTP request in place, adding Host (when absent), X-Amz-Date and
// Authorization headers. No header is written until the signature is fully
// computed, so a failed call leaves the request untouched. A request that
// already carries an Authorization header is rejected rather than ending up
// with two conflicting values.
func (s *Signer) Sign(req *http.Request, service, region string) (*SignedRequest, error) {
	if err := validateSignArgs(req, service, region); err != nil {
		return nil, err
	}

	// Capture the signing time once; the x-amz-date header and the credential
	// scope must reference the same instant.
	signTime := s.signingTime()
	amzDate := FormatSigningTime(signTime)

	payloadHash, err := payloadHashFromBody(req)
	if err != nil {
		return nil, &SigningError{
			Operation: "compute payload hash",
			Err:       err,
		}
	}

	// Canonicalize over a scratch copy of the headers carrying the values that
	// will be injected, so every signed header is enumerated and the request
	// itself stays unmodified until signing succeeds.
	scratch := cloneHeader(req.Header)

	host := GetHeaderValue(req.Header, HeaderHost)
	hostInjected := host == ""
	if hostInjected {
		host = requestHost(req)
		if host == "" {
			return nil, &SigningError{
				Operation: "resolve host header",
				Err:       ErrMissingRequiredHeader,
			}
		}
		scratch.Set(HeaderHost, host)
	}
	scratch.Set(HeaderXAmzDate, amzDate)

	canonicalReq := BuildCanonicalRequest(req, scratch, payloadHash)
	stringToSign := BuildStringToSign(canonicalReq, service, region, signTime)

	signingKey := DeriveSigningKey(s.creds.SecretAccessKey, FormatSigningDate(signTime), region, service)
	signature := ComputeSignature(signingKey, stringToSign.String())

	authHeader := BuildAuthorizationHeader(
		s.creds.AccessKeyID,
		stringToSign.CredentialScope,
		canonicalReq.SignedHeaders,
		signature,
	)

	if hostInjected {
		req.Header.Set(HeaderHost, host)
	}
	req.Header.Set(HeaderXAmzDate, amzDate)
	req.Header.Set(HeaderAuthorization, authHeader)

	return &SignedRequest{
		Request:         req,
		Signature:       signature,
		SignedHeaders:   canonicalReq.SignedHeaders,
		CredentialScope: stringToSign.CredentialScope,
		SigningTime:     signTime,
	}, nil
}

// validateSignArgs fails fast on invalid arguments before any canonicalization work
func validateSignArgs(req *http.Request, service, region string) error {
	if req == nil {
		return ErrNilRequest
	}

	if req.URL == nil {
		return &ValidationError{
			Field: "URL",
			Err:   fmt.Errorf("request URL cannot be nil"),
		}
	}

	if service == "" {
		return &ValidationError{
			Field: "service",
			Err:   fmt.Errorf("service cannot be empty"),
		}
	}

	if region == "" {
		return &ValidationError{
			Field: "region",
			Err:   fmt.Errorf("region cannot be empty"),
		}
	}

	if GetHeaderValue(req.Header, HeaderAuthorization) != "" {
		return ErrAuthorizationHeaderPresent
	}

	return nil
}

// signingTime returns the UTC instant used throughout one Sign call
func (s *Signer) signingTime() time.Time {
	if s.options.OverrideSigningTime != nil {
		return s.options.OverrideSigningTime.UTC()
	}
	if s.options.Clock != nil {
		return s.options.Clock().UTC()
	}
	return time.Now().UTC()
}

// payloadHashFromBody hashes the request body and restores it so it can still
// be sent. A nil body hashes as the empty byte sequence.
func payloadHashFromBody(req *http.Request) (string, error) {
	if req.Body == nil {
		return ComputePayloadHash(nil), nil
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read request body: %w", err)
	}

	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	return ComputePayloadHash(bodyBytes), nil
}

// requestHost resolves the target host for a request without a Host header
func requestHost(req *http.Request) string {
	if req.Host != "" {
		return req.Host
	}
	if req.URL != nil {
		return req.URL.Host
	}
	return ""
}

// cloneHeader creates a deep copy of an HTTP header map
func cloneHeader(h http.Header) http.Header {
	clone := make(http.Header, len(h))
	for k, v := range h {
		clone[k] = append([]string(nil), v...)
	}
	return clone
}
