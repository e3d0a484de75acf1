// Package cli constructs the repo-evidence command-line interface. It wires the
// Cobra command hierarchy to the viper-backed configuration loader and the zap
// logger factory, and registers the evidence-ledger, docs-links, and
// skill-validate subcommands.
package cli
