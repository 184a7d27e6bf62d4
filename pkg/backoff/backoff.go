// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package backoff

import (
	"math/rand/v2"
	"time"
)

const (
	Base      = 5 * time.Second
	Cap       = 300 * time.Second
	MaxJitter = time.Second
)

// Delay returns the wait before retry attempt n (n >= 1):
// min(Base * 2^(n-1) + jitter, Cap), jitter uniform in [0, MaxJitter).
// Attempts below 1 are clamped to 1.
func Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := Cap
	// Guard the shift: Base<<39 already exceeds Cap, anything larger overflows.
	if attempt-1 < 40 {
		delay = Base << uint(attempt-1)
	}
	if delay >= Cap {
		return Cap
	}

	delay += time.Duration(rand.Int64N(int64(MaxJitter)))
	if delay > Cap {
		return Cap
	}
	return delay
}
