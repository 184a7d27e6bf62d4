// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

// Package template substitutes the fixed set of credential placeholders into
// user-supplied strings. Substitution is permissive: placeholders that do not
// name a known field pass through verbatim, so rendering never fails.
package template

import (
	"regexp"
)

// Context carries the values available to secret templates.
type Context struct {
	ClientID     string
	ClientSecret string
	DisplayName  string
	Namespace    string
	ResourceName string
}

// placeholder matches "{{ .Field }}" with arbitrary surrounding whitespace
// inside the braces.
var placeholder = regexp.MustCompile(`\{\{\s*\.([A-Za-z0-9_]+)\s*\}\}`)

// Render replaces every recognized placeholder in s with its value from ctx.
// Unrecognized placeholders are returned unchanged, and substituted values
// are never re-scanned, so templates cannot recurse.
func Render(s string, ctx Context) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		field := placeholder.FindStringSubmatch(match)[1]
		switch field {
		case "ClientID":
			return ctx.ClientID
		case "ClientSecret":
			return ctx.ClientSecret
		case "DisplayName":
			return ctx.DisplayName
		case "Namespace":
			return ctx.Namespace
		case "ResourceName":
			return ctx.ResourceName
		default:
			return match
		}
	})
}
