// Package log provides the leveled logging interface used across ragchat.
//
// Components log through the package-level functions (Debug, Info, Warn,
// Error) so a program can switch the backend once at startup:
//
//	glog := golog.New()
//	logger := log.NewGologLogger(glog)
//	logger.SetLevel(log.LogLevelDebug)
//	log.SetDefaultLogger(logger)
//
// # Log Levels
//
//   - LogLevelDebug: prompts sent to the chat model, routing decisions, scores
//   - LogLevelInfo: indexing progress and program milestones
//   - LogLevelWarn: recoverable problems such as router fallbacks
//   - LogLevelError: failures that abort a turn or the program
//   - LogLevelNone: disables all logging output
//
// Levels can be parsed from configuration strings with ParseLevel.
package log
