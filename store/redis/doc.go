// Package redis stores chat memory in Redis.
//
// Every session is one string key, "<prefix>memory:<session id>", holding the
// JSON-encoded message list. A TTL, when set, is refreshed on every update so
// idle sessions expire.
//
//	store := redis.NewRedisMemoryStore(redis.RedisOptions{
//		Addr: "localhost:6379",
//		TTL:  24 * time.Hour,
//	})
//	mem, _ := memory.NewWindowMemory(10, store, "alice")
package redis
