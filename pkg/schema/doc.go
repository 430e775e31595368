// Package schema declares forms as ordered lists of named fields, each with
// its own rules. Construction rejects duplicate names and rules that point at
// fields the schema does not contain, so a *Schema in hand is always
// internally consistent.
package schema
