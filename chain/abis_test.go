package chain

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"
)

func TestContractABIs(t *testing.T) {
	tests := []struct {
		name    string
		abi     abi.ABI
		methods []string
	}{
		{
			name:    "erc20",
			abi:     GetERC20ABI(),
			methods: []string{"balanceOf", "allowance", "approve", "decimals"},
		}, {
			name:    "setToken",
			abi:     GetSetTokenABI(),
			methods: []string{"getComponents", "getUnits", "naturalUnit"},
		}, {
			name: "core",
			abi:  GetCoreABI(),
			methods: []string{
				"orderFills", "orderCancels", "transferProxy", "vault",
				"exchanges", "validSets", "validFactories",
				"fillOrder", "cancelOrder", "create", "issue", "redeem",
				"redeemAndWithdraw", "deposit", "withdraw",
				"batchDeposit", "batchWithdraw",
			},
		}, {
			name:    "vault",
			abi:     GetVaultABI(),
			methods: []string{"getOwnerBalance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, method := range tt.methods {
				_, ok := tt.abi.Methods[method]
				require.True(t, ok, "missing method %s", method)
			}
		})
	}
}
