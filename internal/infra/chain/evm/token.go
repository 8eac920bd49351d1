package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/cryptoshield/internal/core/domain"
)

// DeadAddress is the conventional burn address; transfer probes are sent from and to it.
var DeadAddress = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

// ErrTransferRejected is returned when transfer() answers false instead of reverting.
var ErrTransferRejected = fmt.Errorf("%w: transfer returned false", domain.ErrContractCallReverted)

// Name reads the ERC-20 name().
func (g *Gateway) Name(ctx context.Context, token common.Address) (string, error) {
	return g.readString(ctx, token, "name")
}

// Symbol reads the ERC-20 symbol().
func (g *Gateway) Symbol(ctx context.Context, token common.Address) (string, error) {
	return g.readString(ctx, token, "symbol")
}

// Decimals reads the ERC-20 decimals().
func (g *Gateway) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	values, err := g.CallContract(ctx, token, ERC20ABI, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: %w: got %T", domain.ErrContractCallReverted, values[0])
	}
	return d, nil
}

// TotalSupply reads the ERC-20 totalSupply() in raw units.
func (g *Gateway) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	values, err := g.CallContract(ctx, token, ERC20ABI, "totalSupply")
	if err != nil {
		return nil, err
	}
	return asBig(values[0])
}

// BalanceOf reads token.balanceOf(account) in raw units.
func (g *Gateway) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	values, err := g.CallContract(ctx, token, ERC20ABI, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return asBig(values[0])
}

// Owner reads the ownership accessor, trying owner() and then getOwner().
// A revert on both means the contract exposes no accessor.
func (g *Gateway) Owner(ctx context.Context, token common.Address) (common.Address, error) {
	var lastErr error
	for _, method := range []string{"owner", "getOwner"} {
		values, err := g.CallContract(ctx, token, ERC20ABI, method)
		if err == nil {
			return asAddress(values[0])
		}
		if !errors.Is(err, domain.ErrContractCallReverted) {
			return common.Address{}, err
		}
		lastErr = err
	}
	return common.Address{}, lastErr
}

// ProbeTransfer simulates transfer(dead, 0) from the dead address. A nil
// error means the token accepted the call and returned true. Empty return
// data counts as a revert, as it does for every other contract read.
func (g *Gateway) ProbeTransfer(ctx context.Context, token common.Address) error {
	data, err := ERC20ABI.Pack("transfer", DeadAddress, big.NewInt(0))
	if err != nil {
		return fmt.Errorf("pack transfer: %w", err)
	}
	from := DeadAddress
	out, err := g.call(ctx, &from, token, data)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if len(out) == 0 {
		return fmt.Errorf("transfer: %w: empty return data", domain.ErrContractCallReverted)
	}

	values, err := ERC20ABI.Unpack("transfer", out)
	if err != nil {
		return fmt.Errorf("transfer: %w: unpack: %v", domain.ErrContractCallReverted, err)
	}
	if ok, _ := values[0].(bool); !ok {
		return ErrTransferRejected
	}
	return nil
}

func (g *Gateway) readString(ctx context.Context, token common.Address, method string) (string, error) {
	values, err := g.CallContract(ctx, token, ERC20ABI, method)
	if err != nil {
		return "", err
	}
	s, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("%s: %w: got %T", method, domain.ErrContractCallReverted, values[0])
	}
	return s, nil
}
