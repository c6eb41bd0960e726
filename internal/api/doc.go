// Package api hosts the console's local status server. Routes:
//   - GET /healthz for liveness checks.
//   - GET /metrics for Prometheus scraping of the console registry.
//   - GET /api/imports and /api/imports/{job_id} for the imports followed in
//     this session, served from a store.ImportRepository.
package api
