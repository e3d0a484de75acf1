// Package ledger generates the evidence ledger: a markdown report built by
// running a fixed list of read-only discovery commands against a repository.
//
// The pipeline is strictly sequential. CommandListBuilder produces the command
// strings (choosing a SearchStrategy once), CommandExecutor runs each through a
// login shell under a timeout and redacts the captured streams with Redactor,
// and RenderReport truncates and formats the results in command order. Service
// wires the stages together and CommandBuilder exposes them as a Cobra command.
package ledger
