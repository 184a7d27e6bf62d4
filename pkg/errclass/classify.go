// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package errclass

import (
	"context"
	"errors"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ClassifyStorageError buckets Kubernetes API errors. The reconciler treats
// every failure the same way (record and retry); the classification only
// feeds logs and metrics.
func ClassifyStorageError(err error) (ErrorKind, ErrorReason) {
	if err == nil {
		return "", ""
	}

	// context.DeadlineExceeded is typically an RPC/API timeout -> retry.
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient, ReasonTimeout
	}
	// context.Canceled usually means controller shutdown / reconcile aborted.
	if errors.Is(err, context.Canceled) {
		return KindTerminal, ReasonOther
	}

	switch {
	// Optimistic concurrency (resourceVersion mismatch) -> retry.
	case apierrors.IsConflict(err):
		return KindConflict, ReasonConflict
	// Create race: someone else already created the object.
	case apierrors.IsAlreadyExists(err):
		return KindConflict, ReasonConflict
	// RBAC/auth misconfiguration -> config issue, retries alone won't help.
	case apierrors.IsForbidden(err) || apierrors.IsUnauthorized(err):
		return KindConfig, ReasonForbidden
	// Validation/schema violations (incl. immutable fields).
	case apierrors.IsInvalid(err):
		return KindConfig, ReasonInvalid
	case apierrors.IsNotFound(err):
		return KindTransient, ReasonNotFound
	// API server timeouts / throttling.
	case apierrors.IsTimeout(err) || apierrors.IsServerTimeout(err) || apierrors.IsTooManyRequests(err):
		return KindTransient, ReasonTimeout
	case apierrors.IsInternalError(err):
		return KindTransient, ReasonOther
	}

	var se *apierrors.StatusError
	if errors.As(err, &se) {
		code := int(se.ErrStatus.Code)
		if code == 0 || (code >= http.StatusInternalServerError && code <= 599) {
			return KindTransient, ReasonOther
		}
	}

	// Unknown errors are safest to treat as transient unless proven terminal.
	return KindTransient, ReasonOther
}

// ClassifyHTTPStatus buckets a REST status code from the external identity
// provider. 2xx never reaches this function.
func ClassifyHTTPStatus(code int) (ErrorKind, ErrorReason) {
	switch {
	case code == http.StatusNotFound:
		return KindTransient, ReasonNotFound
	case code == http.StatusConflict:
		return KindConflict, ReasonConflict
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindConfig, ReasonForbidden
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return KindConfig, ReasonInvalid
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests:
		return KindTransient, ReasonTimeout
	case code == 0 || code >= http.StatusInternalServerError:
		return KindTransient, ReasonOther
	default:
		return KindTerminal, ReasonOther
	}
}
