// Package screens groups schemas with their screen copy (title, submit label,
// success title) and the links between screens.
package screens
