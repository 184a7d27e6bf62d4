// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"context"
	"fmt"
	"time"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/lapacek-labs/pocketid-operator/api/v1alpha1"
	"github.com/lapacek-labs/pocketid-operator/pkg/logging"
	"github.com/lapacek-labs/pocketid-operator/pkg/observability"
	"github.com/lapacek-labs/pocketid-operator/pkg/result"
)

// logDecisionIfAllowed logs the reconcile outcome. Successes and gate drops
// go to the debug level; failures are logged at most once per reminder
// interval per UID+phase+reason fingerprint so a stuck resource does not
// flood the output on every redelivery.
func logDecisionIfAllowed(
	ctx context.Context,
	limiter *logging.Limiter,
	phase observability.Phase,
	obj *v1alpha1.PocketIDClient,
	decision result.Decision,
) {
	if obj == nil {
		return
	}
	logger := logf.FromContext(ctx)

	kv := []any{
		"client", obj.Name,
		"phase", phase,
		"outcome", decision.Outcome,
		"reason", decision.Reason,
		"msg", decision.Msg,
	}

	switch decision.Outcome {
	case result.OutcomeSuccess:
		if limiter != nil {
			// The failure streak is over; the next one logs immediately.
			limiter.Forget("fail|" + string(obj.UID) + "|")
		}
		logger.V(1).Info("Reconcile succeeded", kv...)
		return
	case result.OutcomeDropped:
		logger.V(1).Info("Reconcile dropped", kv...)
		return
	}

	kv = append(kv, "retryAttempt", obj.Status.RetryAttempt)

	err := decision.Err
	if err == nil {
		err = fmt.Errorf("reconcile failed")
	}

	fingerprint := fmt.Sprintf("fail|%s|%s|%s", obj.UID, phase, decision.Reason)
	if limiter == nil || limiter.Allow(fingerprint, time.Now(), reminderInterval(decision.Reason)) {
		logger.Error(err, "Reconcile failed", kv...)
	}
}

func reminderInterval(r result.Reason) time.Duration {
	switch r {
	case result.ReasonInvalidSpec:
		// User must fix the spec; retries won't help.
		return 5 * time.Minute
	case result.ReasonDeletionFailed:
		// Not retried automatically; remind until someone intervenes.
		return 5 * time.Minute
	case result.ReasonExternalService, result.ReasonStorage:
		return 2 * time.Minute
	default:
		return 10 * time.Minute
	}
}
