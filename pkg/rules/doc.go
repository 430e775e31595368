// Package rules holds the field rule catalog (required, email, minLength,
// equalsField) and the small combinators used to compose them. Rules are pure:
// they read the field value and, for cross-field checks, the full value bag,
// and never mutate either.
package rules
