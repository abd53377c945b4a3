// Package pages serves GET /{pageID}: the built-in content of a page with its
// remote content merged on top.
package pages
