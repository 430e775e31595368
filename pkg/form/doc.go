// Package form implements the per-screen form controller: it owns the raw
// values, touched flags and computed errors of one schema, and exposes
// change, blur and submit handlers for whatever presentation layer drives it.
package form
