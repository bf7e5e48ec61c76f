// Package memory keeps the chat history sent to the model with every turn.
//
// WindowMemory holds a sliding window over the latest messages of a session
// and writes through a Store. InMemoryStore lives in this package; the
// persistent stores are under store/.
//
//	mem, _ := memory.NewWindowMemory(10, nil, "")
//	_ = mem.Add(ctx, memory.NewMessage(memory.RoleHuman, "Bonjour"))
//	history, _ := mem.Messages(ctx)
package memory
