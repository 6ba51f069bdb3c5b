package sigv4

import (
	"fmt"
	"net/http"
)

// Transport is an http.RoundTripper that signs every request before delegating
// to an underlying transport. It lets a plain http.Client speak to a SigV4
// protected endpoint without each call site touching the Signer.
type Transport struct {
	// Signer signs outgoing requests
	Signer *Signer

	// Service is the service name used in the credential scope
	Service string

	// Region is the region used in the credential scope
	Region string

	// Base is the underlying transport; http.DefaultTransport when nil
	Base http.RoundTripper
}

// NewTransport creates a signing transport for a fixed service and region
func NewTransport(signer *Signer, service, region string) *Transport {
	return &Transport{
		Signer:  signer,
		Service: service,
		Region:  region,
	}
}

// RoundTrip signs the request and forwards it to the base transport.
// RoundTrippers must not mutate the caller's request, so the signature is
// written onto a shallow clone with its own header map.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Signer == nil {
		return nil, fmt.Errorf("sigv4: transport has no signer")
	}

	signed := req.Clone(req.Context())
	if signed.Header == nil {
		signed.Header = make(http.Header)
	}

	if _, err := t.Signer.Sign(signed, t.Service, t.Region); err != nil {
		return nil, err
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(signed)
}
