// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/lapacek-labs/pocketid-operator/api/v1alpha1"
	"github.com/lapacek-labs/pocketid-operator/pkg/status"
)

func markReconciling(cs *status.ConditionSet, attempt int) {
	cs.Set(string(v1alpha1.ConditionReconciling), metav1.ConditionTrue,
		string(v1alpha1.ReasonReconciling), fmt.Sprintf("Reconcile attempt %d in progress", attempt))
}

func markClientCreated(cs *status.ConditionSet, clientID string) {
	cs.Set(string(v1alpha1.ConditionClientCreated), metav1.ConditionTrue,
		string(v1alpha1.ReasonClientCreated), fmt.Sprintf("Created Pocket-ID client %q", clientID))
}

func markClientUpdated(cs *status.ConditionSet, clientID string) {
	cs.Set(string(v1alpha1.ConditionClientUpdated), metav1.ConditionTrue,
		string(v1alpha1.ReasonClientUpdated), fmt.Sprintf("Updated Pocket-ID client %q", clientID))
}

func markSecretApplied(cs *status.ConditionSet, secretName string) {
	cs.Set(string(v1alpha1.ConditionSecretCreated), metav1.ConditionTrue,
		string(v1alpha1.ReasonSecretApplied), fmt.Sprintf("Applied credentials secret %q", secretName))
}

func markReady(cs *status.ConditionSet) {
	cs.Set(string(v1alpha1.ConditionReady), metav1.ConditionTrue,
		string(v1alpha1.ReasonReconcileSucceeded), "Reconcile completed")
	cs.Set(string(v1alpha1.ConditionReconciling), metav1.ConditionFalse,
		string(v1alpha1.ReasonReconcileSucceeded), "Reconcile completed")
}

func markFailed(cs *status.ConditionSet, attempt int, err error) {
	cs.Set(string(v1alpha1.ConditionReady), metav1.ConditionFalse,
		string(v1alpha1.ReasonReconcileFailed), fmt.Sprintf("Attempt %d failed: %v", attempt, err))
	cs.Set(string(v1alpha1.ConditionReconciling), metav1.ConditionFalse,
		string(v1alpha1.ReasonReconcileFailed), fmt.Sprintf("Attempt %d failed", attempt))
}

func markMaxRetriesExceeded(cs *status.ConditionSet, attempts int) {
	cs.Set(string(v1alpha1.ConditionReady), metav1.ConditionFalse,
		string(v1alpha1.ReasonMaxRetriesExceeded),
		fmt.Sprintf("Giving up after %d failed attempts; change the spec to retry", attempts))
}

func markDeletionFailed(cs *status.ConditionSet, err error) {
	cs.Set(string(v1alpha1.ConditionReady), metav1.ConditionFalse,
		string(v1alpha1.ReasonDeletionFailed), fmt.Sprintf("Deletion failed: %v", err))
}
