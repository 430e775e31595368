// Package schemafile loads screen definitions (fields, rules, copy and links)
// from JSON or YAML documents. The bundled sign-in, sign-up and employee
// screens ship as an embedded YAML file.
package schemafile
