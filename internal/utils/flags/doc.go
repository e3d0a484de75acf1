// Package flags provides Cobra flag helpers shared by the repo-evidence commands:
// yes/no toggles and usage strings that highlight the default choice.
package flags
