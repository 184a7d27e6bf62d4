// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package controller

import (
	"sync"

	"k8s.io/apimachinery/pkg/types"
)

// Tracker is the process-local dedup ledger: the last generation that was
// reconciled to completion, per resource UID. One entry per live resource,
// no eviction. Losing it on restart is safe; the next event is handled as a
// fresh trigger and the reconcile sequence is idempotent.
//
// Only successful attempts are recorded. Failed attempts leave the ledger
// untouched so that redeliveries for the same generation reach the backoff
// gate instead of being dropped here.
type Tracker struct {
	mutex       sync.Mutex
	generations map[types.UID]int64
}

func NewTracker() *Tracker {
	return &Tracker{generations: make(map[types.UID]int64)}
}

// Processed reports whether generation is the last one recorded for uid.
func (t *Tracker) Processed(uid types.UID, generation int64) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	last, ok := t.generations[uid]
	return ok && last == generation
}

// MarkProcessed records generation as handled for uid.
func (t *Tracker) MarkProcessed(uid types.UID, generation int64) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.generations[uid] = generation
}

// Forget drops the entry for uid, typically on resource deletion.
func (t *Tracker) Forget(uid types.UID) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	delete(t.generations, uid)
}
