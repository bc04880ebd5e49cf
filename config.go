package setprotocol

import (
	"log/slog"
	"time"
)

// NetworkID identifies an Ethereum network the protocol is deployed on
type NetworkID int

const (
	NetworkIDMainnet NetworkID = 1
)

// SupportedNetworkIDs lists all networks with known protocol deployments
var SupportedNetworkIDs = []NetworkID{NetworkIDMainnet}

// ContractAddresses holds the deployed protocol addresses for a network
type ContractAddresses struct {
	Core          string
	TransferProxy string
	Vault         string
}

// DefaultContractAddresses maps network IDs to their protocol deployments
var DefaultContractAddresses = map[NetworkID]ContractAddresses{
	NetworkIDMainnet: {
		Core:          "0xf55186CC537E7067eA616F2aaE007b4427a120C8",
		TransferProxy: "0x882d80D3a191859d64477eb78Cca46599307ec1C",
		Vault:         "0x5B67871C3a857dE81A1ca0f9F7945e5670D986Dc",
	},
}

// Config holds configuration for creating a Client
type Config struct {
	RPCURL     string
	PrivateKey string // hex encoded, optional: omit for a read-only client
	NetworkID  NetworkID

	// Overrides for the per-network defaults, mainly for test deployments.
	CoreAddress          string
	TransferProxyAddress string
	VaultAddress         string

	// TTL for cached set token components and natural units.
	SetDetailsCacheTTL time.Duration

	Logger *slog.Logger
}
