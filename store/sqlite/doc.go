// Package sqlite stores chat memory in a SQLite database, one row per
// session. The table is created on open.
//
//	store, err := sqlite.NewSqliteMemoryStore(sqlite.SqliteOptions{Path: "ragchat.db"})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
package sqlite
