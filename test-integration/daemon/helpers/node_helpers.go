package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Mock node credentials
const (
	NodeUser     = "bwt"
	NodePassword = "integration"
)

// MockNode serves the bitcoind JSON-RPC methods used by the bitcoind engine.
// Each method answers with its scripted results in order, the last one
// repeating.
type MockNode struct {
	mu     sync.Mutex
	script map[string][]any
	server *httptest.Server
}

// NodeError is a scripted RPC error
type NodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewMockNode starts a synced regtest node without a wallet
func NewMockNode() *MockNode {
	n := &MockNode{script: map[string][]any{}}
	n.server = httptest.NewServer(http.HandlerFunc(n.handle))
	n.server.Config.SetKeepAlivesEnabled(false)

	n.On("getblockchaininfo", ChainInfo(false, 1))
	n.On("getnetworkinfo", map[string]any{"version": 260000, "subversion": "/Satoshi:26.0.0/"})
	n.On("getwalletinfo", &NodeError{Code: -18, Message: "No wallet is loaded"})
	return n
}

// URL returns the RPC endpoint
func (n *MockNode) URL() string {
	return n.server.URL
}

// Close stops the node
func (n *MockNode) Close() {
	n.server.Close()
}

// On scripts the results of method
func (n *MockNode) On(method string, results ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.script[method] = results
}

// Config returns an engine configuration document for the node
func (n *MockNode) Config(extra string) string {
	return fmt.Sprintf(`{
		"network": "regtest",
		"bitcoind_url": %q,
		"bitcoind_auth": "%s:%s",
		"poll_interval": "5ms",
		"setup_logger": false
		%s
	}`, n.server.URL, NodeUser, NodePassword, extra)
}

// ChainInfo returns a getblockchaininfo result
func ChainInfo(ibd bool, progress float64) map[string]any {
	return map[string]any{
		"chain":                "regtest",
		"blocks":               150,
		"headers":              150,
		"bestblockhash":        "3bc5d1bbd4a6d4b8aed0f1a2f4a3bdb1b6a7c1cc0a3e5b5f8e0a4b1c9d2e3f40",
		"mediantime":           1700000000,
		"verificationprogress": progress,
		"initialblockdownload": ibd,
	}
}

func (n *MockNode) handle(w http.ResponseWriter, r *http.Request) {
	if user, password, ok := r.BasicAuth(); !ok || user != NodeUser || password != NodePassword {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req struct {
		ID     string `json:"id"`
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	results := n.script[req.Method]
	var result any = &NodeError{Code: -32601, Message: "Method not found"}
	if len(results) > 0 {
		result = results[0]
		if len(results) > 1 {
			n.script[req.Method] = results[1:]
		}
	}
	n.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if nodeErr, isErr := result.(*NodeError); isErr {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"result": nil, "error": nodeErr, "id": req.ID})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"result": result, "error": nil, "id": req.ID})
}
