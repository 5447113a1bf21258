// Package store implements pedidos.Repository on DynamoDB, MongoDB and
// process memory. Orders are stored as single documents with their tasks
// embedded, so a save or delete is atomic per order. Concurrent saves of the
// same id are last-write-wins.
package store
