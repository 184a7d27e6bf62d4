// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"context"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	controllerruntime "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/lapacek-labs/pocketid-operator/api/v1alpha1"
	"github.com/lapacek-labs/pocketid-operator/internal/pocketid"
	"github.com/lapacek-labs/pocketid-operator/pkg/errclass"
	"github.com/lapacek-labs/pocketid-operator/pkg/logging"
	"github.com/lapacek-labs/pocketid-operator/pkg/observability"
	"github.com/lapacek-labs/pocketid-operator/pkg/result"
	"github.com/lapacek-labs/pocketid-operator/pkg/status"
)

const ID = "pocketid-client"

// maxRetryAttempts caps the upsert retry loop. Once reached, only a spec
// change (generation bump) re-enters reconciliation.
const maxRetryAttempts = 10

type reconcileContext struct {
	start      time.Time
	phase      observability.Phase
	decision   result.Decision
	obj        *v1alpha1.PocketIDClient
	conditions *status.ConditionSet
}

// Controller reconciles a PocketIDClient object against a Pocket-ID
// instance. The workqueue serializes invocations per resource; distinct
// resources reconcile concurrently, sharing only the dedup tracker.
type Controller struct {
	client  client.Client
	scheme  *runtime.Scheme
	newAPI  func() (pocketid.API, error)
	tracker *Tracker
	limiter *logging.Limiter
	metrics observability.Recorder
	now     func() time.Time
}

func NewController(cl client.Client, sch *runtime.Scheme, newAPI func() (pocketid.API, error), lim *logging.Limiter, rec observability.Recorder) *Controller {
	return &Controller{
		client:  cl,
		scheme:  sch,
		newAPI:  newAPI,
		tracker: NewTracker(),
		limiter: lim,
		metrics: rec,
		now:     time.Now,
	}
}

// SetupWithManager sets up the controller with the Manager.
func (c *Controller) SetupWithManager(mgr controllerruntime.Manager) error {
	return controllerruntime.NewControllerManagedBy(mgr).
		For(&v1alpha1.PocketIDClient{}).
		Named(ID).
		Complete(c)
}

// +kubebuilder:rbac:groups=identity.lapacek-labs.org,resources=pocketidclients,verbs=get;list;watch;update;patch
// +kubebuilder:rbac:groups=identity.lapacek-labs.org,resources=pocketidclients/status,verbs=get;patch;update
// +kubebuilder:rbac:groups=identity.lapacek-labs.org,resources=pocketidclients/finalizers,verbs=update
// +kubebuilder:rbac:groups="",resources=secrets,verbs=get;list;watch;create;patch;update;delete

// Reconcile synchronizes the Pocket-ID client and its credentials Secret
// with the declared spec.
func (c *Controller) Reconcile(ctx context.Context, req controllerruntime.Request) (controllerruntime.Result, error) {
	logger := logf.FromContext(ctx).WithValues(
		"controller", ID,
		"request", req.NamespacedName,
	)
	ctx = logf.IntoContext(ctx, logger)
	startTime := c.now()

	obj := &v1alpha1.PocketIDClient{}
	if err := c.client.Get(ctx, req.NamespacedName, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return controllerruntime.Result{}, nil
		}
		return controllerruntime.Result{}, err
	}

	cs := status.NewConditionSet(obj.Status.Conditions, obj.Generation, startTime)

	// Deletion bypasses every gate, including dedup.
	if obj.DeletionTimestamp != nil {
		return c.finish(ctx, reconcileContext{
			start:      startTime,
			phase:      observability.PhaseDeletion,
			obj:        obj,
			conditions: cs,
			decision:   c.removeClient(ctx, obj, cs),
		})
	}

	if decision, gated := c.gate(ctx, obj, cs); gated {
		return c.finish(ctx, reconcileContext{
			start:      startTime,
			phase:      observability.PhaseGate,
			obj:        obj,
			conditions: cs,
			decision:   decision,
		})
	}

	attempt := obj.Status.RetryAttempt
	if !sameIntent(obj, cs) {
		// New generation: retry bookkeeping restarts from zero.
		attempt = 0
	}

	return c.finish(ctx, reconcileContext{
		start:      startTime,
		phase:      observability.PhaseUpsert,
		obj:        obj,
		conditions: cs,
		decision:   c.reconcileClient(ctx, obj, cs, attempt),
	})
}

// gate applies the entry gates in order: dedup ledger, steady state, backoff
// window, retry budget. A true second return value ends the invocation with
// the given decision.
func (c *Controller) gate(ctx context.Context, obj *v1alpha1.PocketIDClient, cs *status.ConditionSet) (result.Decision, bool) {
	if c.tracker.Processed(obj.UID, obj.Generation) {
		return result.Decision{
			Outcome: result.OutcomeDropped,
			Reason:  result.ReasonDeduplicated,
			Msg:     "generation already processed",
		}, true
	}

	if obj.Status.ObservedGeneration == obj.Generation && obj.Status.Phase == v1alpha1.PhaseReady {
		// Steady state. Re-seed the ledger so follow-up events for this
		// generation hit the cheaper dedup gate (the ledger does not
		// survive restarts).
		c.tracker.MarkProcessed(obj.UID, obj.Generation)
		return result.Decision{
			Outcome: result.OutcomeDropped,
			Reason:  result.ReasonUpToDate,
			Msg:     "observed generation is ready",
		}, true
	}

	if !sameIntent(obj, cs) {
		// The spec changed since the last recorded outcome; neither the
		// backoff window nor the retry budget applies to the new
		// generation.
		return result.Decision{}, false
	}

	if obj.Status.Phase != v1alpha1.PhaseReady && obj.Status.NextRetryTime != nil {
		if wait := obj.Status.NextRetryTime.Time.Sub(c.now()); wait > 0 {
			return result.Decision{
				Outcome:      result.OutcomeDropped,
				Reason:       result.ReasonBackoffPending,
				RequeueAfter: wait,
				Msg:          "backoff window still open",
			}, true
		}
	}

	if obj.Status.RetryAttempt >= maxRetryAttempts {
		markMaxRetriesExceeded(cs, obj.Status.RetryAttempt)
		c.patchStatus(ctx, obj, cs, func(st *v1alpha1.PocketIDClientStatus) {
			st.Phase = v1alpha1.PhaseFailed
			st.NextRetryTime = nil
		})
		return result.Decision{
			Outcome: result.OutcomeDropped,
			Reason:  result.ReasonMaxRetries,
			Msg:     "retry budget exhausted; waiting for a spec change",
		}, true
	}

	return result.Decision{}, false
}

// sameIntent reports whether the persisted Ready condition was recorded for
// the current generation, i.e. whether previous outcomes still describe the
// declared intent. The condition is used instead of the in-memory ledger so
// the comparison survives operator restarts.
func sameIntent(obj *v1alpha1.PocketIDClient, cs *status.ConditionSet) bool {
	ready := cs.Find(string(v1alpha1.ConditionReady))
	return ready != nil && ready.ObservedGeneration == obj.Generation
}

func (c *Controller) finish(ctx context.Context, f reconcileContext) (controllerruntime.Result, error) {
	if f.obj == nil {
		return controllerruntime.Result{}, nil
	}

	if c.metrics != nil {
		c.metrics.RecordAttempt(observability.Attempt{
			Outcome: f.decision.Outcome,
			Reason:  f.decision.Reason,
			Phase:   f.phase,
		}, time.Since(f.start))
	}

	logDecisionIfAllowed(ctx, c.limiter, f.phase, f.obj, f.decision)

	return f.decision.Result()
}

// patchStatus applies mutate on top of the current status and persists the
// delta, together with any condition changes, through the status subresource.
// Status is best-effort observability: a failed write is logged and swallowed
// so it never aborts reconciliation (the next event redrives the comparison
// against the real world anyway).
func (c *Controller) patchStatus(ctx context.Context, obj *v1alpha1.PocketIDClient, cs *status.ConditionSet, mutate func(st *v1alpha1.PocketIDClientStatus)) {
	base := obj.DeepCopy()
	if mutate != nil {
		mutate(&obj.Status)
	}
	if cs != nil && cs.Changed() {
		obj.Status.Conditions = cs.Conditions()
	}

	if err := c.client.Status().Patch(ctx, obj, client.MergeFrom(base)); err != nil {
		kind, reason := errclass.ClassifyStorageError(err)
		logf.FromContext(ctx).Error(err, "Status patch failed; continuing",
			"kind", kind,
			"reason", reason,
		)
	}
}
