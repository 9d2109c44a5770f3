// SPDX-License-Identifier: MPL-2.0

// Package issue holds the catalog of user-facing problems wdee can run into,
// rendered as Markdown with glamour, and the ActionableError type that ties a
// Go error to an operation, a resource, suggestions and a catalog entry.
package issue
