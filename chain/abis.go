package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ERC20 ABI JSON for the balance, allowance and approve functions
const erc20ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"type": "function"
	}
]`

// SetToken ABI JSON for component schedule and natural unit reads
const setTokenABIJSON = `[
	{
		"constant": true,
		"inputs": [],
		"name": "getComponents",
		"outputs": [{"name": "", "type": "address[]"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "getUnits",
		"outputs": [{"name": "", "type": "uint256[]"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "naturalUnit",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	}
]`

// Core ABI JSON covering order accounting reads, protocol address getters
// and the state-changing entry points the client submits to.
const coreABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "", "type": "bytes32"}],
		"name": "orderFills",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "", "type": "bytes32"}],
		"name": "orderCancels",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "transferProxy",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "vault",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "", "type": "uint8"}],
		"name": "exchanges",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "", "type": "address"}],
		"name": "validSets",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "", "type": "address"}],
		"name": "validFactories",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "factory", "type": "address"},
			{"name": "components", "type": "address[]"},
			{"name": "units", "type": "uint256[]"},
			{"name": "naturalUnit", "type": "uint256"},
			{"name": "name", "type": "string"},
			{"name": "symbol", "type": "string"}
		],
		"name": "create",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "set", "type": "address"},
			{"name": "quantity", "type": "uint256"},
			{"name": "toExclude", "type": "uint256"}
		],
		"name": "redeemAndWithdraw",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "tokens", "type": "address[]"},
			{"name": "quantities", "type": "uint256[]"}
		],
		"name": "batchDeposit",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "tokens", "type": "address[]"},
			{"name": "quantities", "type": "uint256[]"}
		],
		"name": "batchWithdraw",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "addresses", "type": "address[5]"},
			{"name": "values", "type": "uint256[6]"},
			{"name": "requiredComponents", "type": "address[]"},
			{"name": "requiredComponentAmounts", "type": "uint256[]"},
			{"name": "fillQuantity", "type": "uint256"},
			{"name": "v", "type": "uint8"},
			{"name": "sigBytes", "type": "bytes32[]"},
			{"name": "orderData", "type": "bytes"}
		],
		"name": "fillOrder",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "addresses", "type": "address[5]"},
			{"name": "values", "type": "uint256[6]"},
			{"name": "requiredComponents", "type": "address[]"},
			{"name": "requiredComponentAmounts", "type": "uint256[]"},
			{"name": "cancelQuantity", "type": "uint256"}
		],
		"name": "cancelOrder",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "set", "type": "address"},
			{"name": "quantity", "type": "uint256"}
		],
		"name": "issue",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "set", "type": "address"},
			{"name": "quantity", "type": "uint256"}
		],
		"name": "redeem",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "quantity", "type": "uint256"}
		],
		"name": "deposit",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "quantity", "type": "uint256"}
		],
		"name": "withdraw",
		"outputs": [],
		"type": "function"
	}
]`

// vaultABIJSON covers the Vault read the SDK consults before withdrawals.
const vaultABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "token", "type": "address"},
			{"name": "owner", "type": "address"}
		],
		"name": "getOwnerBalance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	}
]`

// GetERC20ABI returns the parsed ERC20 ABI
func GetERC20ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("failed to parse ERC20 ABI: " + err.Error())
	}
	return parsed
}

// GetSetTokenABI returns the parsed SetToken ABI
func GetSetTokenABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(setTokenABIJSON))
	if err != nil {
		panic("failed to parse SetToken ABI: " + err.Error())
	}
	return parsed
}

// GetCoreABI returns the parsed Core ABI
func GetCoreABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(coreABIJSON))
	if err != nil {
		panic("failed to parse Core ABI: " + err.Error())
	}
	return parsed
}

// GetVaultABI returns the parsed Vault ABI
func GetVaultABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(vaultABIJSON))
	if err != nil {
		panic("failed to parse Vault ABI: " + err.Error())
	}
	return parsed
}
