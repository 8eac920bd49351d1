// Package evm is the read-only chain gateway for EVM networks: ABI-encoded
// eth_call against a JSON-RPC node, with errors classified into the domain
// taxonomy.
package evm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/rpc/provider"
)

// Caller issues a single JSON-RPC request. *rpc.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, method string, params []any) (any, error)
}

// Config holds the DEX contracts the gateway queries.
type Config struct {
	Router  common.Address
	Factory common.Address
}

// Gateway performs contract reads against one endpoint.
type Gateway struct {
	client  Caller
	router  common.Address
	factory common.Address
	log     *slog.Logger
}

func NewGateway(client Caller, cfg Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client:  client,
		router:  cfg.Router,
		factory: cfg.Factory,
		log:     logger.With("component", "evm_gateway"),
	}
}

// CallContract packs method with args, executes it with eth_call at the
// latest block and returns the decoded outputs. Empty return data counts as
// a revert.
func (g *Gateway) CallContract(
	ctx context.Context,
	contract common.Address,
	contractABI *abi.ABI,
	method string,
	args ...any,
) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := g.call(ctx, nil, contract, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w: empty return data", method, domain.ErrContractCallReverted)
	}

	values, err := contractABI.Unpack(method, out)
	if err != nil {
		// Garbage return data means the contract does not implement the method.
		return nil, fmt.Errorf("%s: %w: unpack: %v", method, domain.ErrContractCallReverted, err)
	}
	return values, nil
}

// Code returns the deployed bytecode at addr.
func (g *Gateway) Code(ctx context.Context, addr common.Address) ([]byte, error) {
	result, err := g.client.Call(ctx, "eth_getCode", []any{addr.Hex(), "latest"})
	if err != nil {
		return nil, fmt.Errorf("eth_getCode: %w", classify(err))
	}
	return decodeHexResult(result)
}

func (g *Gateway) call(ctx context.Context, from *common.Address, to common.Address, data []byte) ([]byte, error) {
	msg := map[string]any{
		"to":   to.Hex(),
		"data": hexutil.Encode(data),
	}
	if from != nil {
		msg["from"] = from.Hex()
	}

	result, err := g.client.Call(ctx, "eth_call", []any{msg, "latest"})
	if err != nil {
		g.log.Debug("eth_call failed", "to", to.Hex(), "error", err)
		return nil, classify(err)
	}
	return decodeHexResult(result)
}

// classify maps transport and node errors onto the domain sentinels.
func classify(err error) error {
	var rpcErr *provider.RPCError
	if errors.As(err, &rpcErr) && isRevert(rpcErr) {
		return fmt.Errorf("%w: %w", domain.ErrContractCallReverted, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrGatewayUnavailable, err)
}

func isRevert(e *provider.RPCError) bool {
	if e.Code == 3 {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "revert") ||
		strings.Contains(msg, "invalid opcode") ||
		strings.Contains(msg, "out of gas")
}

func decodeHexResult(result any) ([]byte, error) {
	s, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type %T", domain.ErrGatewayUnavailable, result)
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		if s == "0x" || s == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: decode result: %v", domain.ErrGatewayUnavailable, err)
	}
	return b, nil
}

func asBig(v any) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: expected uint256, got %T", domain.ErrContractCallReverted, v)
	}
	return n, nil
}

func asAddress(v any) (common.Address, error) {
	a, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: expected address, got %T", domain.ErrContractCallReverted, v)
	}
	return a, nil
}
