// Package server implements the MCP (Model Context Protocol) surface of
// the assay tools: JSON-RPC 2.0 over stdin/stdout, line-delimited.
//
// The server exposes the quantification pipeline as tools an MCP client
// drives step by step: load a strip photo, turn a painted selection into
// a crop rectangle, detect the indicator line, aggregate its color, and
// reduce a batch of photos into a signal trend. Logging goes to stderr;
// stdout carries protocol frames only.
//
// # Protocol
//
// Supported methods:
//   - initialize: protocol handshake, advertises tool capability
//   - notifications/initialized: client acknowledgment (no response)
//   - tools/list: returns tool definitions with JSON schemas
//   - tools/call: executes a tool with JSON arguments
//   - ping: liveness check
//
// Tool results are wrapped in MCP's content format as JSON text. Tool
// failures become JSON-RPC errors with code -32000; malformed parameters
// use -32602 and unknown methods -32601.
//
// # State
//
// The only cross-call state is the decoded-image cache and the
// configured default detector. Detection itself allocates everything per
// call, so concurrent tool handling would be safe; the stdio loop is
// nevertheless sequential, matching the protocol's request/response
// framing.
package server
