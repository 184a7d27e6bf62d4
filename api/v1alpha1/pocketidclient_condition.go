// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package v1alpha1

type ConditionType string

const (
	ConditionReady         ConditionType = "Ready"
	ConditionReconciling   ConditionType = "Reconciling"
	ConditionClientCreated ConditionType = "ClientCreated"
	ConditionClientUpdated ConditionType = "ClientUpdated"
	ConditionSecretCreated ConditionType = "SecretCreated"
)

type ConditionReason string

const (
	ReasonReconciling        ConditionReason = "Reconciling"
	ReasonReconcileSucceeded ConditionReason = "ReconcileSucceeded"
	ReasonReconcileFailed    ConditionReason = "ReconcileFailed"
	ReasonMaxRetriesExceeded ConditionReason = "MaxRetriesExceeded"
	ReasonDeletionFailed     ConditionReason = "DeletionFailed"
	ReasonClientCreated      ConditionReason = "ClientCreated"
	ReasonClientUpdated      ConditionReason = "ClientUpdated"
	ReasonSecretApplied      ConditionReason = "SecretApplied"
)
