// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging, per-command timeouts, and capture limits via
// ShellExecutor, exposes OSCommandRunner for default process execution, and
// defines the abstractions repo-evidence uses to run git and shell scripts in
// a testable manner.
package execshell
