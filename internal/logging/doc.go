// Package logging provides structured logging for fedsearch.
//
// Logs are always written to stderr as JSON, never stdout: stdout carries
// JSON-RPC frames for the MCP transport and any other byte written there
// would corrupt the protocol stream.
package logging
