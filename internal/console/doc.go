// Package console is the interactive, line-oriented front end of the dice
// tray. It reads one command per line, applies it to a tray.Tray and redraws
// the tray using the configured display options and locale.
package console
