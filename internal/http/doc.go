// Package http exposes the tracker over a loopback JSON API.
//
// The router serves:
//   - GET /healthz: liveness plus build version.
//   - /api/areas: life area CRUD. DELETE archives, POST /{id}/restore reactivates.
//   - /api/areas/{id}/scores, /api/areas/{id}/scores/latest and /api/scores/latest.
//   - /api/areas/{id}/action-items and /api/action-items: the ordered action list,
//     with PUT/DELETE on /api/action-items/{id}, POST /{id}/archive and
//     POST /api/action-items/reorder.
//   - POST /api/areas/{id}/reset?scope=all|scores|action_items and POST /api/reset.
//
// Failures share one envelope: {"error":{"code","message","fields"}}. Request and
// response DTOs live next to the handler that uses them.
package http
