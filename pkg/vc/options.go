/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vc

// Option configures credential and presentation parsing.
type Option func(*parseOptions)

type parseOptions struct {
	legacyView bool
}

// WithoutLegacyView disables production of the legacy dialect view. The
// LegacyJSONLD accessor returns nil on objects parsed with this option.
func WithoutLegacyView() Option {
	return func(o *parseOptions) {
		o.legacyView = false
	}
}

func applyOptions(opts []Option) *parseOptions {
	options := &parseOptions{legacyView: true}

	for _, opt := range opts {
		opt(options)
	}

	return options
}
