// Package binder provides request binders for handler.Wrap: JSON decodes
// the request body, Path reads router parameters.
package binder
