package sigv4

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, opts ...VerifierOption) *Verifier {
	t.Helper()

	store := NewInMemoryCredentialStore()
	require.NoError(t, store.AddCredentials(testCredentials))

	return NewVerifier(store, opts...)
}

// Full round-trip: sign with Signer, verify with Verifier
func TestRoundTrip(t *testing.T) {
	signer, err := NewSigner(testCredentials)
	require.NoError(t, err)
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("GET", "https://example.com/path/to/resource", nil)
	require.NoError(t, err)

	_, err = signer.Sign(req, "myservice", "us-east-1")
	require.NoError(t, err)

	result, err := verifier.Verify(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, testCredentials.AccessKeyID, result.AccessKeyID)
	assert.Equal(t, "myservice", result.Service)
	assert.Equal(t, "us-east-1", result.Region)
	assert.Contains(t, result.SignedHeaders, "host")
	assert.Contains(t, result.SignedHeaders, "x-amz-date")
}

func TestRoundTripWithBodyAndQuery(t *testing.T) {
	signer, err := NewSigner(testCredentials)
	require.NoError(t, err)
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("POST", "https://example.com/items?filter=recent&page=2", strings.NewReader(`{"sampleKey":"sampleValue"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	_, err = signer.Sign(req, "execute-api", "ap-northeast-1")
	require.NoError(t, err)

	result, err := verifier.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// The body is still readable after signing and verification
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"sampleKey":"sampleValue"}`, string(body))
}

// Incoming server-side requests carry the host on req.Host, not in the header
// map; verification must still see it.
func TestRoundTripServerSideHost(t *testing.T) {
	signer, err := NewSigner(testCredentials)
	require.NoError(t, err)
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("GET", "https://example.com/api/data", nil)
	require.NoError(t, err)

	_, err = signer.Sign(req, "myservice", "us-east-1")
	require.NoError(t, err)

	// Rebuild the request the way net/http presents it to a handler
	req.Host = req.Header.Get(HeaderHost)
	req.Header.Del(HeaderHost)

	result, err := verifier.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

// A trailing ';' in the signed-headers list (as an intermediary might leave
// behind) must not surface empty header names or change the outcome.
func TestVerifyTrailingSignedHeadersSeparator(t *testing.T) {
	signer, err := NewSigner(testCredentials)
	require.NoError(t, err)
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("GET", "https://example.com/api/data", nil)
	require.NoError(t, err)

	_, err = signer.Sign(req, "myservice", "us-east-1")
	require.NoError(t, err)

	auth := req.Header.Get(HeaderAuthorization)
	req.Header.Set(HeaderAuthorization, strings.Replace(auth, ", Signature=", ";, Signature=", 1))

	result, err := verifier.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, []string{"host", "x-amz-date"}, result.SignedHeaders)
	assert.NotContains(t, result.SignedHeaders, "")
}

func TestVerifyTamperedBody(t *testing.T) {
	signer, err := NewSigner(testCredentials)
	require.NoError(t, err)
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("POST", "https://example.com/items", strings.NewReader(`{"amount":10}`))
	require.NoError(t, err)

	_, err = signer.Sign(req, "myservice", "us-east-1")
	require.NoError(t, err)

	// Tamper with the body after signing
	req.Body = io.NopCloser(strings.NewReader(`{"amount":9999}`))

	result, err := verifier.Verify(context.Background(), req)
	assert.Error(t, err)
	assert.False(t, result.Valid)
	assert.ErrorIs(t, result.Error, ErrInvalidSignature)
}

func TestVerifyTamperedQuery(t *testing.T) {
	signer, err := NewSigner(testCredentials)
	require.NoError(t, err)
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("GET", "https://example.com/items?user=alice", nil)
	require.NoError(t, err)

	_, err = signer.Sign(req, "myservice", "us-east-1")
	require.NoError(t, err)

	req.URL.RawQuery = "user=mallory"

	result, err := verifier.Verify(context.Background(), req)
	assert.Error(t, err)
	assert.False(t, result.Valid)
}

func TestVerifyMissingAuthorization(t *testing.T) {
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("GET", "https://example.com/", nil)
	require.NoError(t, err)

	result, err := verifier.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingAuthorizationHeader)
	assert.False(t, result.Valid)
}

func TestVerifyUnknownAccessKey(t *testing.T) {
	otherCreds := &Credentials{
		AccessKeyID:     "AKIAUNKNOWNKEY",
		SecretAccessKey: "unknown-secret",
	}
	signer, err := NewSigner(otherCreds)
	require.NoError(t, err)
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("GET", "https://example.com/", nil)
	require.NoError(t, err)

	_, err = signer.Sign(req, "myservice", "us-east-1")
	require.NoError(t, err)

	result, err := verifier.Verify(context.Background(), req)
	assert.Error(t, err)
	assert.False(t, result.Valid)
	assert.ErrorIs(t, result.Error, ErrCredentialNotFound)
}

func TestVerifyStaleTimestamp(t *testing.T) {
	stale := time.Now().UTC().Add(-time.Hour)
	signer, err := NewSigner(testCredentials, WithSigningTime(stale))
	require.NoError(t, err)
	verifier := newTestVerifier(t)

	req, err := http.NewRequest("GET", "https://example.com/", nil)
	require.NoError(t, err)

	_, err = signer.Sign(req, "myservice", "us-east-1")
	require.NoError(t, err)

	result, err := verifier.Verify(context.Background(), req)
	assert.Error(t, err)
	assert.False(t, result.Valid)
	assert.ErrorIs(t, result.Error, ErrTimestampOutOfRange)
}

func TestVerifyWithinConfiguredDrift(t *testing.T) {
	stale := time.Now().UTC().Add(-time.Hour)
	signer, err := NewSigner(testCredentials, WithSigningTime(stale))
	require.NoError(t, err)
	verifier := newTestVerifier(t, WithMaxTimestampDrift(2*time.Hour))

	req, err := http.NewRequest("GET", "https://example.com/", nil)
	require.NoError(t, err)

	_, err = signer.Sign(req, "myservice", "us-east-1")
	require.NoError(t, err)

	result, err := verifier.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}
