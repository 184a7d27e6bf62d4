// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package errclass

type ErrorKind string

const (
	KindTransient ErrorKind = "Transient"
	KindTerminal  ErrorKind = "Terminal"
	KindConflict  ErrorKind = "Conflict"
	KindConfig    ErrorKind = "Config"
)

type ErrorReason string

const (
	ReasonForbidden ErrorReason = "Forbidden"
	ReasonConflict  ErrorReason = "Conflict"
	ReasonNotFound  ErrorReason = "NotFound"
	ReasonTimeout   ErrorReason = "Timeout"
	ReasonInvalid   ErrorReason = "Invalid"
	ReasonOther     ErrorReason = "Other"
)
