// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package result

type Reason string

const (
	ReasonReconciled      Reason = "Reconciled"
	ReasonDeduplicated    Reason = "Deduplicated"
	ReasonUpToDate        Reason = "UpToDate"
	ReasonBackoffPending  Reason = "BackoffPending"
	ReasonMaxRetries      Reason = "MaxRetries"
	ReasonInvalidSpec     Reason = "InvalidSpec"
	ReasonExternalService Reason = "ExternalService"
	ReasonStorage         Reason = "Storage"
	ReasonRemoved         Reason = "Removed"
	ReasonDeletionFailed  Reason = "DeletionFailed"
	ReasonUnknown         Reason = "Unknown"
)
