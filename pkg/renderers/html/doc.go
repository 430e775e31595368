// Package html renders form screens as HTML fragments using pongo2 templates.
// Field help text is run through a bluemonday policy before it reaches the
// page; everything else is escaped by the template engine.
package html
