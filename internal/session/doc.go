// Package session hosts calculator engines for concurrent callers. The
// engine itself is single-threaded; a Session wraps one engine behind a
// mutex so HTTP and WebSocket handlers can share it safely.
package session
