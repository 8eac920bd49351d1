package assessment

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/chain/evm"
)

// TokenReader reads the token's own contract surface.
type TokenReader interface {
	Code(ctx context.Context, addr common.Address) ([]byte, error)
	Name(ctx context.Context, token common.Address) (string, error)
	Symbol(ctx context.Context, token common.Address) (string, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	TotalSupply(ctx context.Context, token common.Address) (*big.Int, error)
	Owner(ctx context.Context, token common.Address) (common.Address, error)
	ProbeTransfer(ctx context.Context, token common.Address) error
}

// RugpullCheck inspects token metadata, transfer capability and ownership.
type RugpullCheck struct {
	tokens TokenReader
}

func NewRugpullCheck(tokens TokenReader) *RugpullCheck {
	return &RugpullCheck{tokens: tokens}
}

// Run passes only when transfers work and ownership is renounced.
func (c *RugpullCheck) Run(ctx context.Context, token common.Address) domain.Outcome[domain.RugpullData] {
	code, err := c.tokens.Code(ctx, token)
	if err != nil {
		return domain.Fail[domain.RugpullData](fmt.Errorf("read contract code: %w", err))
	}
	if len(code) == 0 {
		return domain.Fail[domain.RugpullData](
			fmt.Errorf("%w: no contract deployed at %s", domain.ErrNoTokenInterface, token.Hex()))
	}

	data := domain.RugpullData{Decimals: baseDecimals}
	var findings []string

	// A reverting accessor becomes a finding; any other error fails the check.
	missing := 0
	read := func(accessor string, fn func() error) error {
		err := fn()
		if errors.Is(err, domain.ErrContractCallReverted) {
			missing++
			findings = append(findings, accessor+"() not available")
			return nil
		}
		return err
	}

	var supply *big.Int
	steps := []struct {
		accessor string
		fn       func() error
	}{
		{"name", func() (err error) { data.Name, err = c.tokens.Name(ctx, token); return err }},
		{"symbol", func() (err error) { data.Symbol, err = c.tokens.Symbol(ctx, token); return err }},
		{"decimals", func() error {
			d, err := c.tokens.Decimals(ctx, token)
			if err == nil {
				data.Decimals = d
			}
			return err
		}},
		{"totalSupply", func() (err error) { supply, err = c.tokens.TotalSupply(ctx, token); return err }},
	}
	for _, s := range steps {
		if err := read(s.accessor, s.fn); err != nil {
			return domain.Fail[domain.RugpullData](fmt.Errorf("read %s: %w", s.accessor, err))
		}
	}
	if missing == len(steps) {
		return domain.Fail[domain.RugpullData](
			fmt.Errorf("%w: no token metadata accessor responds", domain.ErrNoTokenInterface))
	}
	data.TotalSupply = toUnits(supply, data.Decimals)

	switch err := c.tokens.ProbeTransfer(ctx, token); {
	case err == nil:
		data.HasTransferFunction = true
	case errors.Is(err, evm.ErrTransferRejected):
		findings = append(findings, "transfer probe returned false, token may block transfers")
	case errors.Is(err, domain.ErrContractCallReverted):
		findings = append(findings, "transfer probe reverted, token may block transfers")
	default:
		return domain.Fail[domain.RugpullData](fmt.Errorf("probe transfer: %w", err))
	}

	owner, err := c.tokens.Owner(ctx, token)
	switch {
	case err == nil && owner == (common.Address{}):
		data.OwnershipStatus = domain.OwnershipRenounced
	case err == nil:
		data.OwnershipStatus = domain.OwnershipOwned
		data.Owner = &owner
		findings = append(findings, "ownership not renounced, owner "+owner.Hex())
	case errors.Is(err, domain.ErrContractCallReverted):
		data.OwnershipStatus = domain.OwnershipUnknown
		findings = append(findings, "no ownership accessor")
	default:
		return domain.Fail[domain.RugpullData](fmt.Errorf("read owner: %w", err))
	}

	passed := data.HasTransferFunction && data.OwnershipStatus == domain.OwnershipRenounced
	return domain.Succeed(data, passed, findings)
}
