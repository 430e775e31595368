// Package validation evaluates a schema against a value bag. Evaluation is
// synchronous and pure: the same schema and values always produce the same
// Outcome or Result.
package validation
