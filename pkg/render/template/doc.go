// Package template defines the template engine contract the page views render
// through. The gotemplate subpackage builds the go-template engine.
package template
