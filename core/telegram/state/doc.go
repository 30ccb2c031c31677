// Package state keeps the per-user conversation state of the bot.
//
// Each user holds exactly one tagged State. Transitions for a single user are
// serialized by the Manager, and Consume swaps the state back to idle before the
// caller acts on the previous value, so one inbound message is interpreted once.
package state
