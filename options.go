package sigv4

import "time"

// SignerOptions contains configuration options for the Signer
type SignerOptions struct {
	// OverrideSigningTime pins the signing time to a fixed instant (primarily for testing)
	OverrideSigningTime *time.Time

	// Clock returns the current time; defaults to time.Now. The returned value
	// is normalized to UTC and captured once per Sign call.
	Clock func() time.Time
}

// SignerOption is a functional option for configuring the Signer
type SignerOption func(*SignerOptions)

// WithSigningTime sets a specific signing time (primarily for testing)
func WithSigningTime(t time.Time) SignerOption {
	return func(opts *SignerOptions) {
		opts.OverrideSigningTime = &t
	}
}

// WithClock injects the clock used to capture the signing time
func WithClock(clock func() time.Time) SignerOption {
	return func(opts *SignerOptions) {
		opts.Clock = clock
	}
}

// VerifierOptions contains configuration options for the Verifier
type VerifierOptions struct {
	// MaxTimestampDrift is the maximum allowed time difference between
	// the request timestamp and the current time
	MaxTimestampDrift time.Duration

	// OverrideCurrentTime allows overriding the current time for timestamp validation (testing)
	OverrideCurrentTime *time.Time
}

// VerifierOption is a functional option for configuring the Verifier
type VerifierOption func(*VerifierOptions)

// WithMaxTimestampDrift sets the maximum allowed time drift for request timestamps
// Default is 5 minutes if not specified
func WithMaxTimestampDrift(duration time.Duration) VerifierOption {
	return func(opts *VerifierOptions) {
		opts.MaxTimestampDrift = duration
	}
}

// WithVerifierCurrentTime sets the current time for timestamp validation (testing)
func WithVerifierCurrentTime(t time.Time) VerifierOption {
	return func(opts *VerifierOptions) {
		opts.OverrideCurrentTime = &t
	}
}

// applySignerOptions applies functional options to SignerOptions
func applySignerOptions(opts ...SignerOption) *SignerOptions {
	options := &SignerOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// applyVerifierOptions applies functional options to VerifierOptions
func applyVerifierOptions(opts ...VerifierOption) *VerifierOptions {
	options := &VerifierOptions{
		// Default to 5 minute timestamp drift
		MaxTimestampDrift: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
