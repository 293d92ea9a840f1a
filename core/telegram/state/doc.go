// Package state keeps per-user conversation sessions for Telegram bots.
// Access is serialized per user: a Handle returned by Lock owns the user's
// session until Unlock, while distinct users never wait on each other.
package state
