// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the default maximum document size (1MB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	// validateOptions holds configuration for validation.
	validateOptions struct {
		maxFileSize int64
		filename    string
	}

	// Option configures validation behavior.
	Option func(*validateOptions)
)

func defaultOptions() validateOptions {
	return validateOptions{
		maxFileSize: DefaultMaxFileSize,
		filename:    "<input>",
	}
}

// WithMaxFileSize sets the maximum allowed document size.
func WithMaxFileSize(size int64) Option {
	return func(o *validateOptions) {
		o.maxFileSize = size
	}
}

// WithFilename sets the filename used in CUE positions and error messages.
func WithFilename(name string) Option {
	return func(o *validateOptions) {
		if name != "" {
			o.filename = name
		}
	}
}
