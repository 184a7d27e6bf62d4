// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

// Package logging provides a fingerprint-keyed rate limiter used to keep
// repeated reconcile-failure logs from flooding the operator output.
package logging

import (
	"strings"
	"sync"
	"time"
)

const defaultSize = 10_000

type Limiter struct {
	size        int
	mutex       sync.Mutex
	nextAllowed map[string]time.Time
}

func NewLimiter(size int) *Limiter {
	if size <= 0 {
		size = defaultSize
	}
	return &Limiter{
		size:        size,
		nextAllowed: make(map[string]time.Time, min(size, 1024)),
	}
}

// Allow reports whether a log line for fingerprint may be emitted at now and,
// if so, arms the next window. A non-positive interval always allows and
// stores nothing.
func (l *Limiter) Allow(fingerprint string, now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return true
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if next, ok := l.nextAllowed[fingerprint]; ok && now.Before(next) {
		return false
	}
	l.nextAllowed[fingerprint] = now.Add(interval)

	if len(l.nextAllowed) > l.size {
		l.prune(now)
	}
	return true
}

// Forget drops all state whose fingerprint starts with prefix, typically
// when the failure streak behind it ended or the resource was deleted.
func (l *Limiter) Forget(prefix string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	for fp := range l.nextAllowed {
		if strings.HasPrefix(fp, prefix) {
			delete(l.nextAllowed, fp)
		}
	}
}

func (l *Limiter) prune(now time.Time) {
	for fp, next := range l.nextAllowed {
		if !now.Before(next) {
			delete(l.nextAllowed, fp)
		}
	}
	// Still over budget: evict arbitrarily rather than grow without bound.
	for len(l.nextAllowed) > l.size {
		for fp := range l.nextAllowed {
			delete(l.nextAllowed, fp)
			break
		}
	}
}
