// Package listsync keeps a paginated, filterable list view in step with the
// backend. A Store owns one Query and replaces its whole row set on every
// load.
package listsync
