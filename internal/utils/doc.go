// Package utils exposes helpers shared by the repo-evidence commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// REPOEVIDENCE_* environment variables through Viper. LoggerFactory builds zap
// loggers for the structured and console formats, and FlushingWriter keeps
// command output ordered with diagnostics on stderr.
package utils
