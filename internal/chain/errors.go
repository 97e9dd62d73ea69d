package chain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// revertCode is the JSON-RPC error code geth-compatible nodes use for
// eth_call / eth_estimateGas executions that revert.
const revertCode = 3

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// IsRevert reports whether the node rejected the call because execution reverted.
func (e *RPCError) IsRevert() bool {
	return e.Code == revertCode || strings.Contains(e.Message, "execution reverted")
}

// RevertData returns the ABI-encoded revert payload attached to the error, if any.
func (e *RPCError) RevertData() ([]byte, bool) {
	if len(e.Data) == 0 {
		return nil, false
	}
	var s string
	if err := json.Unmarshal(e.Data, &s); err != nil {
		return nil, false
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

// ReceiptError is returned when a mined transaction has a failed status.
type ReceiptError struct {
	Hash common.Hash
}

func (e *ReceiptError) Error() string {
	return fmt.Sprintf("transaction reverted (hash: %s)", e.Hash.Hex())
}
