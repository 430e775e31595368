// Package render turns accepted submissions into the text shown or logged by
// notifiers, and exposes helpers renderers use to surface per-field errors.
package render
