// Package catalog defines the entities exchanged with the catalog backend
// (products, webhooks, import jobs) and the error taxonomy shared by the
// console components.
package catalog
