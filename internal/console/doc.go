// Package console renders the catalog views on a terminal and bundles the
// per-entity stores and editors into a Session.
package console
