package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the node.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrInvalidResponse indicates the node returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrBlockNotFinal indicates the beacon block is not yet buried deep enough.
	ErrBlockNotFinal = errors.New("network: beacon block not final")

	// ErrMissingRPCConfig indicates no node URL could be resolved.
	ErrMissingRPCConfig = errors.New("network: missing rpc configuration")
)
