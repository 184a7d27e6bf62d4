// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/lapacek-labs/pocketid-operator/api/v1alpha1"
	"github.com/lapacek-labs/pocketid-operator/pkg/result"
	"github.com/lapacek-labs/pocketid-operator/pkg/status"
)

// removeClient runs the deletion sequence: delete the Pocket-ID client,
// delete the credentials Secret, then release the finalizer, in that order.
// Any failure keeps the finalizer in place so the resource cannot vanish
// while the external client or the Secret may still exist; the failure is
// recorded in status and NOT retried automatically, an operator (or another
// cluster-state change) has to redrive it.
func (c *Controller) removeClient(ctx context.Context, obj *v1alpha1.PocketIDClient, cs *status.ConditionSet) result.Decision {
	if !controllerutil.ContainsFinalizer(obj, FinalizerName) {
		// Nothing guarded; the storage layer finishes physical deletion.
		c.tracker.Forget(obj.UID)
		return result.Decision{Outcome: result.OutcomeDropped, Reason: result.ReasonRemoved, Msg: "no finalizer present"}
	}

	c.patchStatus(ctx, obj, cs, func(st *v1alpha1.PocketIDClientStatus) {
		st.Phase = v1alpha1.PhaseRemoving
	})

	api, err := c.newAPI()
	if err != nil {
		return c.failRemoval(ctx, obj, cs, err)
	}

	clientID := obj.Status.ClientID
	if clientID == "" {
		clientID = resolveClientID(obj)
	}
	if api.Exists(ctx, clientID) {
		if err := api.Delete(ctx, clientID); err != nil {
			return c.failRemoval(ctx, obj, cs, err)
		}
	}

	if err := c.deleteCredentialsSecret(ctx, obj); err != nil {
		return c.failRemoval(ctx, obj, cs, err)
	}

	if err := c.releaseFinalizer(ctx, obj); err != nil {
		return c.failRemoval(ctx, obj, cs, err)
	}

	c.tracker.Forget(obj.UID)
	return result.Decision{
		Outcome: result.OutcomeSuccess,
		Reason:  result.ReasonRemoved,
		Msg:     "client and credentials removed",
	}
}

func (c *Controller) failRemoval(ctx context.Context, obj *v1alpha1.PocketIDClient, cs *status.ConditionSet, err error) result.Decision {
	markDeletionFailed(cs, err)
	c.patchStatus(ctx, obj, cs, func(st *v1alpha1.PocketIDClientStatus) {
		st.Phase = v1alpha1.PhaseRemovalFailed
	})
	return result.Decision{
		Outcome: result.OutcomeFailed,
		Reason:  result.ReasonDeletionFailed,
		Msg:     "deletion failed; finalizer kept, waiting for operator intervention",
		Err:     err,
	}
}
