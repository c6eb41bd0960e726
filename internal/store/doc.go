// Package store defines the repository interface for import job history.
// Implementations live in subpackages; this package must not import concrete
// clients.
package store
