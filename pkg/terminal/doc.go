// Package terminal interprets the commands of the portfolio's fake shell.
//
// The command set is closed: [Interpreter.Execute] looks the trimmed,
// lower-cased input up in a fixed table and anything else falls through to
// a "Command not found" reply. A command never performs side effects
// itself; it returns an [Effect] describing what the front end should do,
// such as opening a link or clearing the screen.
//
// [Session] adds the state an interactive front end needs: scrollback that
// starts with a welcome banner, and a [History] navigated like a shell's
// up and down arrows.
package terminal
