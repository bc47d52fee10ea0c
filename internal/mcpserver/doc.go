// Package mcpserver exposes a calculator engine over the Model Context
// Protocol.
//
// One engine is shared by every tool call of a process:
//
//	press          press one label or a space separated sequence
//	display        current display text
//	history        history entries, newest first
//	clear_history  empty the history
//	reset          clear the entry and the history
//
// Invalid labels produce tool errors. The engine is left untouched when
// any label in a sequence is invalid.
package mcpserver
