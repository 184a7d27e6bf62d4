// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package status

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NewConditionSet wraps an existing condition list for this reconcile pass.
// Every Set replaces by type in place; new types are appended. The original
// list order is preserved so condition display stays stable across updates.
func NewConditionSet(conditions []metav1.Condition, generation int64, reconcileTime time.Time) *ConditionSet {
	ordered := make([]metav1.Condition, len(conditions))
	copy(ordered, conditions)
	index := make(map[string]int, len(ordered))
	for i, c := range ordered {
		index[c.Type] = i
	}
	return &ConditionSet{
		ordered:            ordered,
		index:              index,
		reconcileTime:      reconcileTime,
		observedGeneration: generation,
	}
}

type ConditionSet struct {
	ordered            []metav1.Condition
	index              map[string]int
	reconcileTime      time.Time
	observedGeneration int64
	changed            bool
}

// Conditions returns the current list, existing entries first in their
// original positions, newly added types appended in Set order.
func (cs *ConditionSet) Conditions() []metav1.Condition {
	out := make([]metav1.Condition, len(cs.ordered))
	copy(out, cs.ordered)
	return out
}

// Set upserts the condition of the given type. The transition time is kept
// from the previous entry when the status did not flip, and an entry that is
// semantically identical to the existing one is left untouched.
func (cs *ConditionSet) Set(condType string, status metav1.ConditionStatus, reason string, message string) {
	next := metav1.Condition{
		Type:               condType,
		Reason:             reason,
		Status:             status,
		Message:            message,
		ObservedGeneration: cs.observedGeneration,
		LastTransitionTime: metav1.NewTime(cs.reconcileTime),
	}
	pos, found := cs.index[condType]
	if found {
		prev := cs.ordered[pos]
		if prev.Status == next.Status {
			next.LastTransitionTime = prev.LastTransitionTime
		}
		if cs.isSame(prev, next) {
			return
		}
		cs.ordered[pos] = next
		cs.changed = true
		return
	}
	cs.index[condType] = len(cs.ordered)
	cs.ordered = append(cs.ordered, next)
	cs.changed = true
}

// Find returns the current condition of the given type, or nil.
func (cs *ConditionSet) Find(condType string) *metav1.Condition {
	if pos, ok := cs.index[condType]; ok {
		c := cs.ordered[pos]
		return &c
	}
	return nil
}

func (cs *ConditionSet) IsConditionTrue(condType string) bool {
	if c := cs.Find(condType); c != nil {
		return c.Status == metav1.ConditionTrue
	}
	return false
}

// Changed reports whether any Set call produced a list that differs from the
// one the set was constructed with.
func (cs *ConditionSet) Changed() bool {
	return cs.changed
}

func (cs *ConditionSet) isSame(prev, next metav1.Condition) bool {
	return prev.Status == next.Status &&
		prev.Reason == next.Reason &&
		prev.Message == next.Message &&
		prev.ObservedGeneration == next.ObservedGeneration
}
