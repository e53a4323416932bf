// Package state provides a lightweight FSM/session manager for Telegram bots.
// Conversation state is keyed by originator id so concurrent dialogues never
// observe each other's captured data.
package state
