// Package editor maps list rows to editable drafts and drafts to create,
// update and delete requests. Products and webhooks share one generic Bridge;
// every successful write reloads the owning list.
package editor
