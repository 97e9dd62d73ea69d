package config

import "time"

// GasLimitContractCall is used when the node cannot estimate a call.
const GasLimitContractCall = uint64(300_000)

// Timeouts shared by cmd and the orchestrator.
const (
	RPCTimeout        = 15 * time.Second
	TxConfirmTimeout  = 3 * time.Minute
	BackgroundTimeout = 30 * time.Second
)
