package sigv4

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSigningKey(t *testing.T) {
	// Published AWS SigV4 derivation example (docs, "deriving the signing key")
	secret := "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY"

	key := DeriveSigningKey(secret, "20150830", "us-east-1", "iam")
	assert.Equal(t, "c4afb1cc5771d871763a393e44b703571b55cc28424d1a5e86da6ed3c154a4b9", hex.EncodeToString(key))
	assert.Len(t, key, 32)
}

func TestDeriveSigningKeyTestSuiteVector(t *testing.T) {
	// Scope used throughout the AWS sigv4 test suite: 20150830/us-east-1/service
	secret := "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY"

	key := DeriveSigningKey(secret, "20150830", "us-east-1", "service")
	assert.Equal(t, "938127b5336810ddb6a5d6af445fcac9e371f9ed418ed386b022aed82901be75", hex.EncodeToString(key))
}

func TestDeriveSigningKeyScopeSensitivity(t *testing.T) {
	secret := "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY"
	key := DeriveSigningKey(secret, "20150830", "us-east-1", "iam")

	// Deterministic for identical inputs
	assert.Equal(t, key, DeriveSigningKey(secret, "20150830", "us-east-1", "iam"))

	// Any scope component change yields a different key
	assert.NotEqual(t, key, DeriveSigningKey(secret, "20150831", "us-east-1", "iam"))
	assert.NotEqual(t, key, DeriveSigningKey(secret, "20150830", "us-west-2", "iam"))
	assert.NotEqual(t, key, DeriveSigningKey(secret, "20150830", "us-east-1", "s3"))
}

func TestComputeSignature(t *testing.T) {
	signingKey := []byte("test-signing-key")
	stringToSign := "test-string-to-sign"

	signature := ComputeSignature(signingKey, stringToSign)

	// SHA256 produces 32 bytes = 64 lowercase hex chars
	assert.Len(t, signature, 64)
	assert.Equal(t, strings.ToLower(signature), signature)
	assert.Equal(t, signature, ComputeSignature(signingKey, stringToSign))
}

func TestComputePayloadHash(t *testing.T) {
	tests := []struct {
		name     string
		payload  []byte
		expected string
	}{
		{
			name:     "nil payload",
			payload:  nil,
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "empty payload",
			payload:  []byte{},
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "sample json payload",
			payload:  []byte(`{"sampleKey":"sampleValue"}`),
			expected: "7e9a0416e1570ad609515ab20714d09f056b02309d4ab1306f24cc37bb5f96a3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputePayloadHash(tt.payload))
		})
	}
}

func TestFormatSigningTime(t *testing.T) {
	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "20200101T000000Z", FormatSigningTime(ts))
	assert.Equal(t, "20200101", FormatSigningDate(ts))

	// Non-UTC instants are normalized to UTC before formatting
	jst := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "20191231T150000Z", FormatSigningTime(time.Date(2020, 1, 1, 0, 0, 0, 0, jst)))
}

func TestParseSigningTime(t *testing.T) {
	ts, err := ParseSigningTime("20200101T000000Z")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, err = ParseSigningTime("2020-01-01T00:00:00Z")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestVerifySignature(t *testing.T) {
	assert.True(t, VerifySignature("abc123", "abc123"))
	assert.False(t, VerifySignature("abc123", "abc124"))
	assert.False(t, VerifySignature("abc123", "abc1234"))
}

func TestBuildCredentialScope(t *testing.T) {
	scope := BuildCredentialScope("20200101", "ap-northeast-1", "execute-api")
	assert.Equal(t, "20200101/ap-northeast-1/execute-api/aws4_request", scope)
}

func TestParseCredentialScope(t *testing.T) {
	tests := []struct {
		name    string
		scope   string
		date    string
		region  string
		service string
		wantErr bool
	}{
		{
			name:    "valid scope",
			scope:   "20200101/ap-northeast-1/execute-api/aws4_request",
			date:    "20200101",
			region:  "ap-northeast-1",
			service: "execute-api",
		},
		{
			name:    "wrong terminator",
			scope:   "20200101/ap-northeast-1/execute-api/aws4_requesx",
			wantErr: true,
		},
		{
			name:    "too few parts",
			scope:   "20200101/execute-api/aws4_request",
			wantErr: true,
		},
		{
			name:    "empty",
			scope:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, region, service, err := ParseCredentialScope(tt.scope)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.date, date)
			assert.Equal(t, tt.region, region)
			assert.Equal(t, tt.service, service)
		})
	}
}
