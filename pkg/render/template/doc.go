// Package template defines the template engine contract used by output
// renderers. The pongo subpackage implements it on pongo2.
package template
