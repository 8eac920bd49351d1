package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidInput is returned for malformed token addresses.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGatewayUnavailable is returned when the chain node cannot be reached or times out.
	ErrGatewayUnavailable = errors.New("gateway unavailable")

	// ErrContractCallReverted is returned when the queried contract rejected the call.
	ErrContractCallReverted = errors.New("contract call reverted")

	// ErrNoPoolFound is returned when the factory has no pair for the token.
	ErrNoPoolFound = errors.New("no liquidity pool found")

	// ErrNoLockerData is returned when a lock vault holds nothing readable for a pair.
	ErrNoLockerData = errors.New("no locker data")

	// ErrNoTokenInterface is returned when the address exposes no recognizable token interface.
	ErrNoTokenInterface = errors.New("no recognizable token interface")
)

// ErrorKind is the machine-readable class of a check failure.
type ErrorKind string

const (
	KindInvalidInput         ErrorKind = "invalid_input"
	KindGatewayUnavailable   ErrorKind = "gateway_unavailable"
	KindContractCallReverted ErrorKind = "contract_call_reverted"
	KindNoPoolFound          ErrorKind = "no_pool_found"
	KindNoLockerData         ErrorKind = "no_locker_data"
	KindNoTokenInterface     ErrorKind = "no_token_interface"
	KindUnknown              ErrorKind = "unknown"
)

// KindOf classifies an error against the sentinel taxonomy.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrContractCallReverted):
		return KindContractCallReverted
	case errors.Is(err, ErrNoPoolFound):
		return KindNoPoolFound
	case errors.Is(err, ErrNoLockerData):
		return KindNoLockerData
	case errors.Is(err, ErrNoTokenInterface):
		return KindNoTokenInterface
	case errors.Is(err, ErrGatewayUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindGatewayUnavailable
	default:
		return KindUnknown
	}
}
