// Package ui renders command lifecycle events as concise console messages.
//
// ConsoleCommandEventLogger is attached to the shell executor when console log
// output is selected, so users see each discovery command as it runs while the
// structured logger keeps the detailed fields.
package ui
