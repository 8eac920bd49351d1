package assessment

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/chain/evm"
)

var (
	wbnb      = common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c")
	testToken = domain.MustTokenAddress("0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82")
	testPair  = common.HexToAddress("0x0eD7e52944161450477ee417DE9Cd3a859b14fD0")
	someOwner = common.HexToAddress("0x1111111111111111111111111111111111111111")

	errRevert      = fmt.Errorf("%w: execution reverted", domain.ErrContractCallReverted)
	errUnavailable = fmt.Errorf("%w: connection refused", domain.ErrGatewayUnavailable)
)

// wei returns n * 10^exp.
func wei(n int64, exp int) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
}

// fakeChain is a configurable Gateway. The zero value of each func field
// means the healthy default from healthyChain.
type fakeChain struct {
	amountsOut  func(amountIn *big.Int, path []common.Address) ([]*big.Int, error)
	decimalsErr error
	code        []byte
	codeErr     error
	nameErr     error
	symbolErr   error
	supplyErr   error
	owner       common.Address
	ownerErr    error
	probeErr    error
	pair        common.Address
	pairErr     error
	reserves    [2]*big.Int
	reservesErr error
	token0      common.Address

	pairCalls atomic.Int32
}

// healthyChain models a liquid, renounced, sellable token with a 10% round trip loss.
func healthyChain() *fakeChain {
	return &fakeChain{
		amountsOut: func(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
			if path[0] == wbnb {
				// 0.01 WBNB buys 5000 tokens
				return []*big.Int{amountIn, wei(5000, 18)}, nil
			}
			// selling them returns 0.009 WBNB
			return []*big.Int{amountIn, wei(9, 15)}, nil
		},
		code:     []byte{0x60, 0x80},
		pair:     testPair,
		reserves: [2]*big.Int{wei(1_000_000, 18), wei(50, 18)},
		token0:   testToken.Address(),
	}
}

func (f *fakeChain) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	return f.amountsOut(amountIn, path)
}

func (f *fakeChain) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	if f.decimalsErr != nil {
		return 0, f.decimalsErr
	}
	return 18, nil
}

func (f *fakeChain) Code(ctx context.Context, addr common.Address) ([]byte, error) {
	return f.code, f.codeErr
}

func (f *fakeChain) Name(ctx context.Context, token common.Address) (string, error) {
	if f.nameErr != nil {
		return "", f.nameErr
	}
	return "Test Token", nil
}

func (f *fakeChain) Symbol(ctx context.Context, token common.Address) (string, error) {
	if f.symbolErr != nil {
		return "", f.symbolErr
	}
	return "TT", nil
}

func (f *fakeChain) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	if f.supplyErr != nil {
		return nil, f.supplyErr
	}
	return wei(1_000_000_000, 18), nil
}

func (f *fakeChain) Owner(ctx context.Context, token common.Address) (common.Address, error) {
	return f.owner, f.ownerErr
}

func (f *fakeChain) ProbeTransfer(ctx context.Context, token common.Address) error {
	return f.probeErr
}

func (f *fakeChain) GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	f.pairCalls.Add(1)
	return f.pair, f.pairErr
}

func (f *fakeChain) GetReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error) {
	if f.reservesErr != nil {
		return nil, nil, f.reservesErr
	}
	return f.reserves[0], f.reserves[1], nil
}

func (f *fakeChain) Token0(ctx context.Context, pair common.Address) (common.Address, error) {
	return f.token0, nil
}

// fakeLocks answers per locker name.
type fakeLocks struct {
	infos map[string]evm.LockInfo
	errs  map[string]error
	// panics names lockers whose lookup panics
	panics map[string]bool
	calls  atomic.Int32
}

func (f *fakeLocks) LockInfo(ctx context.Context, locker evm.Locker, lp common.Address) (evm.LockInfo, error) {
	f.calls.Add(1)
	if f.panics[locker.Name] {
		panic("locker blew up")
	}
	if err := f.errs[locker.Name]; err != nil {
		return evm.LockInfo{}, err
	}
	return f.infos[locker.Name], nil
}
