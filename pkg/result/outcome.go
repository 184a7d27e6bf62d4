// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package result

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeDropped Outcome = "dropped"
)
