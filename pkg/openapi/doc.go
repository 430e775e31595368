// Package openapi derives form screens from OpenAPI 3 documents. Each
// operation with an object request body becomes a screen whose fields and
// rules come from the body schema and a small set of x-formgen extensions.
package openapi
