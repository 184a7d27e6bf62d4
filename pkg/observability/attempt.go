// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package observability

import (
	"github.com/lapacek-labs/pocketid-operator/pkg/result"
)

type Attempt struct {
	Outcome result.Outcome
	Reason  result.Reason
	Phase   Phase
}

type Phase string

const (
	PhaseGate     Phase = "gate"
	PhaseUpsert   Phase = "upsert"
	PhaseDeletion Phase = "deletion"
)
