// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"context"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/lapacek-labs/pocketid-operator/api/v1alpha1"
)

// FinalizerName guards physical deletion until the Pocket-ID client and the
// credentials Secret are cleaned up.
const FinalizerName = "identity.lapacek-labs.org/pocketid-client"

// ensureFinalizer adds the deletion guard if missing. Idempotent; a patch
// conflict surfaces as an ordinary failure and is resolved by the retried
// re-apply.
func (c *Controller) ensureFinalizer(ctx context.Context, obj *v1alpha1.PocketIDClient) error {
	if controllerutil.ContainsFinalizer(obj, FinalizerName) {
		return nil
	}
	base := obj.DeepCopy()
	controllerutil.AddFinalizer(obj, FinalizerName)
	if err := c.client.Patch(ctx, obj, client.MergeFrom(base)); err != nil {
		return fmt.Errorf("failed to add finalizer: %w", err)
	}
	return nil
}

// releaseFinalizer removes the deletion guard, allowing the storage layer to
// physically delete the resource. Idempotent.
func (c *Controller) releaseFinalizer(ctx context.Context, obj *v1alpha1.PocketIDClient) error {
	if !controllerutil.ContainsFinalizer(obj, FinalizerName) {
		return nil
	}
	base := obj.DeepCopy()
	controllerutil.RemoveFinalizer(obj, FinalizerName)
	if err := c.client.Patch(ctx, obj, client.MergeFrom(base)); err != nil {
		return fmt.Errorf("failed to remove finalizer: %w", err)
	}
	return nil
}
