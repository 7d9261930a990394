// Package chaintest serves a minimal eth JSON-RPC endpoint for tests.
package chaintest

import (
	"errors"
	"math/big"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Node answers eth_chainId and eth_blockNumber; eth_call always reverts.
type Node struct {
	URL   string
	block atomic.Uint64
}

// SetBlock moves the reported head.
func (n *Node) SetBlock(block uint64) {
	n.block.Store(block)
}

type ethService struct {
	chainID *big.Int
	node    *Node
}

func (s *ethService) ChainId() *hexutil.Big {
	return (*hexutil.Big)(s.chainID)
}

func (s *ethService) BlockNumber() hexutil.Uint64 {
	return hexutil.Uint64(s.node.block.Load())
}

func (s *ethService) Call(args map[string]interface{}, block string) (hexutil.Bytes, error) {
	return nil, errors.New("execution reverted")
}

// NewNode starts an HTTP JSON-RPC server stopped on test cleanup.
func NewNode(t testing.TB, chainID int64, block uint64) *Node {
	t.Helper()
	node := &Node{}
	node.SetBlock(block)

	server := rpc.NewServer()
	if err := server.RegisterName("eth", &ethService{chainID: big.NewInt(chainID), node: node}); err != nil {
		t.Fatalf("register eth service: %v", err)
	}
	httpServer := httptest.NewServer(server)
	t.Cleanup(func() {
		httpServer.Close()
		server.Stop()
	})

	node.URL = httpServer.URL
	return node
}
