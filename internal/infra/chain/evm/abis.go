package evm

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed abi/*.json
var abiFS embed.FS

// Contract ABIs used by the gateway.
var (
	ERC20ABI    = mustLoadABI("erc20")
	RouterABI   = mustLoadABI("router")
	FactoryABI  = mustLoadABI("factory")
	PairABI     = mustLoadABI("pair")
	PinkLockABI = mustLoadABI("pinklock")
	UNCXABI     = mustLoadABI("uncx")
)

func mustLoadABI(name string) *abi.ABI {
	raw, err := abiFS.ReadFile("abi/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("read %s abi: %v", name, err))
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parse %s abi: %v", name, err))
	}
	return &parsed
}
