// File: internal/services/chat/types.go
package chat

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Turn is one conversation entry included in the prompt's history window.
type Turn struct {
	Role    string
	Content string
}

// Fragment is one unit of a streamed answer. A Fragment with Err set is
// terminal: the producer sends at most one and then closes the stream.
type Fragment struct {
	Text string
	Err  error
}

// Answer is one streamed turn: the fragment channel plus the titles of
// the documents the retrieved context came from. Sources is known before
// the first fragment, so callers can surface it ahead of the stream.
type Answer struct {
	Fragments <-chan Fragment
	Sources   []string
}
