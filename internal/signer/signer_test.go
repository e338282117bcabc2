package signer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrun/payrun/internal/registry"
	"github.com/payrun/payrun/internal/wallet"
	perrors "github.com/payrun/payrun/pkg/errors"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// fakeNode is a minimal JSON-RPC endpoint that answers eth_chainId and
// eth_call with canned results.
type fakeNode struct {
	chainID    string
	callResult string
	dials      atomic.Int64
}

func (n *fakeNode) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result string
		switch req.Method {
		case "eth_chainId":
			n.dials.Add(1)
			result = n.chainID
		case "eth_call":
			result = n.callResult
		default:
			http.Error(w, fmt.Sprintf("unexpected method %s", req.Method), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"%s"}`, req.ID, result)
	}
}

func testIdentity(t *testing.T) *wallet.Identity {
	t.Helper()
	identity, err := wallet.FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	return identity
}

// TestBindVerifiesChainID binds a signer against a node reporting the
// expected chain ID.
func TestBindVerifiesChainID(t *testing.T) {
	node := &fakeNode{chainID: "0x2105"} // 8453
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	factory := NewFactory(testIdentity(t), 5*time.Second, nil)
	defer factory.Close()

	endpoint := registry.Endpoint{Chain: "base", ChainID: 8453, RPCURL: srv.URL, NativeSymbol: "ETH"}
	s, err := factory.Bind(context.Background(), endpoint)
	require.NoError(t, err)

	assert.Equal(t, int64(8453), s.ChainID().Int64())
	assert.Equal(t, "base", s.Endpoint().Chain)
}

// TestBindChainIDMismatch rejects a node that reports the wrong chain.
func TestBindChainIDMismatch(t *testing.T) {
	node := &fakeNode{chainID: "0x1"}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	factory := NewFactory(testIdentity(t), 5*time.Second, nil)
	defer factory.Close()

	endpoint := registry.Endpoint{Chain: "base", ChainID: 8453, RPCURL: srv.URL, NativeSymbol: "ETH"}
	_, err := factory.Bind(context.Background(), endpoint)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrConnection))
}

// TestBindUnreachableEndpoint maps a refused connection to a connection error.
func TestBindUnreachableEndpoint(t *testing.T) {
	factory := NewFactory(testIdentity(t), 500*time.Millisecond, nil)
	defer factory.Close()

	endpoint := registry.Endpoint{Chain: "ethereum", ChainID: 1, RPCURL: "http://127.0.0.1:1", NativeSymbol: "ETH"}
	_, err := factory.Bind(context.Background(), endpoint)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrConnection))
}

// TestBindCachesPerChain only dials once per chain across repeated binds.
func TestBindCachesPerChain(t *testing.T) {
	node := &fakeNode{chainID: "0x1"}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	factory := NewFactory(testIdentity(t), 5*time.Second, nil)
	defer factory.Close()

	endpoint := registry.Endpoint{Chain: "ethereum", ChainID: 1, RPCURL: srv.URL, NativeSymbol: "ETH"}

	first, err := factory.Bind(context.Background(), endpoint)
	require.NoError(t, err)
	second, err := factory.Bind(context.Background(), endpoint)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), node.dials.Load())
}

// TestTokenDecimals reads decimals() through a bound signer.
func TestTokenDecimals(t *testing.T) {
	node := &fakeNode{
		chainID:    "0x1",
		callResult: "0x0000000000000000000000000000000000000000000000000000000000000006",
	}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	factory := NewFactory(testIdentity(t), 5*time.Second, nil)
	defer factory.Close()

	endpoint := registry.Endpoint{Chain: "ethereum", ChainID: 1, RPCURL: srv.URL, NativeSymbol: "ETH"}
	s, err := factory.Bind(context.Background(), endpoint)
	require.NoError(t, err)

	decimals, err := s.TokenDecimals(context.Background(),
		common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), decimals)
}

// TestSignerAddress matches the derived identity address.
func TestSignerAddress(t *testing.T) {
	node := &fakeNode{chainID: "0x1"}
	srv := httptest.NewServer(node.handler())
	defer srv.Close()

	identity := testIdentity(t)
	factory := NewFactory(identity, 5*time.Second, nil)
	defer factory.Close()

	endpoint := registry.Endpoint{Chain: "ethereum", ChainID: 1, RPCURL: srv.URL, NativeSymbol: "ETH"}
	s, err := factory.Bind(context.Background(), endpoint)
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress(identity.Address()), s.Address())
}
