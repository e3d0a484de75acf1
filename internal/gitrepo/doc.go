// Package gitrepo contains helpers for interrogating Git repositories.
//
// It exposes RootResolver, which maps a starting directory to the top level of
// the enclosing work tree and falls back to the directory itself when Git is
// unavailable or the directory is not under version control.
package gitrepo
