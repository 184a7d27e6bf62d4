// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/lapacek-labs/pocketid-operator/api/v1alpha1"
	"github.com/lapacek-labs/pocketid-operator/internal/pocketid"
	"github.com/lapacek-labs/pocketid-operator/pkg/backoff"
	"github.com/lapacek-labs/pocketid-operator/pkg/result"
	"github.com/lapacek-labs/pocketid-operator/pkg/status"
)

// reconcileClient drives the Pocket-ID client and its credentials Secret
// towards the declared spec. attempt is the number of failed attempts the
// current generation has accumulated; any failure increments it and schedules
// the next try through the backoff policy. Partial progress is never rolled
// back: a created client with a failed Secret write is picked up by the next
// attempt's existence check and routed to the update branch.
func (c *Controller) reconcileClient(ctx context.Context, obj *v1alpha1.PocketIDClient, cs *status.ConditionSet, attempt int) result.Decision {
	if obj.Spec.Name == "" {
		return c.fail(ctx, obj, cs, attempt, result.ReasonInvalidSpec, fmt.Errorf("spec.name is required"))
	}

	// The adapter is rebuilt from the environment on every attempt so a
	// rotated API token takes effect without a restart.
	api, err := c.newAPI()
	if err != nil {
		return c.fail(ctx, obj, cs, attempt, result.ReasonExternalService, err)
	}

	if err := c.ensureFinalizer(ctx, obj); err != nil {
		return c.fail(ctx, obj, cs, attempt, result.ReasonStorage, err)
	}

	phase := v1alpha1.PhasePending
	if attempt > 0 {
		phase = v1alpha1.PhaseRetrying
	}
	markReconciling(cs, attempt+1)
	c.patchStatus(ctx, obj, cs, func(st *v1alpha1.PocketIDClientStatus) {
		st.Phase = phase
		st.RetryAttempt = attempt
		st.NextRetryTime = nil
	})

	clientID := resolveClientID(obj)
	secretName := resolveSecretName(obj)
	def := definitionFromSpec(obj.Spec)

	if api.Exists(ctx, clientID) {
		if err := api.Update(ctx, clientID, def); err != nil {
			return c.fail(ctx, obj, cs, attempt, result.ReasonExternalService, err)
		}
		markClientUpdated(cs, clientID)
	} else {
		def.ID = clientID
		if err := api.Create(ctx, def); err != nil {
			return c.fail(ctx, obj, cs, attempt, result.ReasonExternalService, err)
		}
		markClientCreated(cs, clientID)
	}

	clientSecret, err := api.RotateSecret(ctx, clientID)
	if err != nil {
		return c.fail(ctx, obj, cs, attempt, result.ReasonExternalService, err)
	}

	data := renderSecretData(obj, clientID, clientSecret)
	if err := c.applyCredentialsSecret(ctx, obj, secretName, data); err != nil {
		return c.fail(ctx, obj, cs, attempt, result.ReasonStorage, err)
	}
	markSecretApplied(cs, secretName)

	markReady(cs)
	c.patchStatus(ctx, obj, cs, func(st *v1alpha1.PocketIDClientStatus) {
		st.Phase = v1alpha1.PhaseReady
		st.RetryAttempt = 0
		st.NextRetryTime = nil
		st.ObservedGeneration = obj.Generation
		st.ClientID = clientID
		st.SecretName = secretName
	})
	c.tracker.MarkProcessed(obj.UID, obj.Generation)

	return result.Decision{
		Outcome: result.OutcomeSuccess,
		Reason:  result.ReasonReconciled,
		Msg:     "client and credentials in sync",
	}
}

// fail records the failed attempt and schedules the retry. The returned
// decision requeues explicitly; the error itself is surfaced through status
// and logs only.
func (c *Controller) fail(ctx context.Context, obj *v1alpha1.PocketIDClient, cs *status.ConditionSet, attempt int, reason result.Reason, err error) result.Decision {
	next := attempt + 1
	delay := backoff.Delay(next)
	retryAt := metav1.NewTime(c.now().Add(delay))

	markFailed(cs, next, err)
	c.patchStatus(ctx, obj, cs, func(st *v1alpha1.PocketIDClientStatus) {
		st.Phase = v1alpha1.PhaseFailed
		st.RetryAttempt = next
		st.NextRetryTime = &retryAt
	})

	if c.metrics != nil {
		c.metrics.RecordRetryScheduled(next, delay)
	}

	return result.Decision{
		Outcome:      result.OutcomeFailed,
		Reason:       reason,
		RequeueAfter: delay,
		Msg:          fmt.Sprintf("attempt %d failed", next),
		Err:          err,
	}
}

func definitionFromSpec(spec v1alpha1.PocketIDClientSpec) pocketid.ClientDefinition {
	return pocketid.ClientDefinition{
		Name:                     spec.Name,
		CallbackURLs:             spec.CallbackURLs,
		LogoutCallbackURLs:       spec.LogoutCallbackURLs,
		IsPublic:                 spec.IsPublic,
		PKCEEnabled:              spec.PKCEEnabled,
		IsGroupRestricted:        spec.IsGroupRestricted,
		LaunchURL:                spec.LaunchURL,
		RequiresReauthentication: spec.RequiresReauthentication,
	}
}
