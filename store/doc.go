// Package store groups the persistent chat-memory backends. Each
// sub-package implements memory.Store:
//
//   - store/redis: one JSON value per session, optional TTL
//   - store/sqlite: a chat_memory table in a local database file
//   - store/postgres: a chat_memory table reached through a pgx pool
package store
