// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

// Default returns the production configuration of spec §6.
func Default() Config {
	c, err := NewBuilder().Build()
	if err != nil {
		// The default builder seed is a compile-time constant; a build
		// error here means the defaults themselves are inconsistent.
		panic(err)
	}
	return c
}

// Demo returns a configuration tuned for fast local demonstration:
// the same guardian/threshold topology but a 50,000-iteration VDF
// (spec §8 scenario 2) instead of the 300,000,000-iteration default.
func Demo() Config {
	c, err := NewBuilder().WithVDFIterations(50_000).Build()
	if err != nil {
		panic(err)
	}
	return c
}
