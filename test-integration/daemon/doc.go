// Package integration provides integration tests for the bwt daemon bridge.
// These tests drive the host entry points end to end, with a scripted engine
// and with the bundled bitcoind engine against a mock node.
package integration
