package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TokenAddress is a validated 20-byte contract address.
type TokenAddress struct {
	addr common.Address
}

// ParseTokenAddress accepts a 42-character 0x-prefixed hex address. Mixed-case input must carry
// a valid EIP-55 checksum; all-lower or all-upper input is accepted as-is. The zero address is rejected.
func ParseTokenAddress(s string) (TokenAddress, error) {
	s = strings.TrimSpace(s)
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return TokenAddress{}, fmt.Errorf("%w: address must be 42 characters starting with 0x", ErrInvalidInput)
	}
	if !common.IsHexAddress(s) {
		return TokenAddress{}, fmt.Errorf("%w: address is not hex", ErrInvalidInput)
	}

	addr := common.HexToAddress(s)
	body := s[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && addr.Hex() != s {
		return TokenAddress{}, fmt.Errorf("%w: bad checksum, expected %s", ErrInvalidInput, addr.Hex())
	}
	if addr == (common.Address{}) {
		return TokenAddress{}, fmt.Errorf("%w: zero address", ErrInvalidInput)
	}

	return TokenAddress{addr: addr}, nil
}

// MustTokenAddress is ParseTokenAddress for constants and tests.
func MustTokenAddress(s string) TokenAddress {
	t, err := ParseTokenAddress(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Address returns the underlying chain address.
func (t TokenAddress) Address() common.Address { return t.addr }

// String returns the checksummed hex form.
func (t TokenAddress) String() string { return t.addr.Hex() }

// IsZero reports whether t was never set.
func (t TokenAddress) IsZero() bool { return t.addr == (common.Address{}) }

func (t TokenAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.addr.Hex())
}
