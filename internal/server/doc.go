// Package server implements the MCP (Model Context Protocol) server for the
// plate reading tools.
//
// This package provides a JSON-RPC 2.0 server that exposes each stage of the
// plate pipeline so a client can inspect it on single images.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Geometry:
//   - plate_estimate_angle: Rotation estimate with its segments
//   - plate_align: Upright plate crop
//   - plate_edges: Canny edge map
//   - plate_remap: Working image box to frame coordinates
//
// Text:
//   - plate_layout: Rows, reading order and text from character boxes
//   - plate_read: Full pipeline on one image (needs detectors)
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Logging
//
// Stdout carries protocol frames only. Logs go through the standard logger,
// which the command points at stderr.
package server
