// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package result

import (
	"time"

	controllerruntime "sigs.k8s.io/controller-runtime"
)

// Decision is the terminal verdict of one reconcile invocation. Err carries
// the causing error for logs and metrics only; retries are always scheduled
// explicitly through RequeueAfter so the workqueue never stacks its own
// backoff on top of the controller's policy.
type Decision struct {
	RequeueAfter time.Duration
	Outcome      Outcome
	Reason       Reason
	Msg          string
	Err          error
}

func (d Decision) Result() (controllerruntime.Result, error) {
	if d.RequeueAfter > 0 {
		return controllerruntime.Result{RequeueAfter: d.RequeueAfter}, nil
	}
	return controllerruntime.Result{}, nil
}
