// Package importflow submits catalog import files and follows the resulting
// job until it completes or fails.
//
// A submission validates the selected path locally, uploads the file as a
// multipart body, and opens one progress.Channel for the returned job id.
// Completion triggers exactly one refresh of the products list.
package importflow
