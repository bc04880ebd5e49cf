package setprotocol

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestComponentExclusionBitmask(t *testing.T) {
	components := []common.Address{testComponentA, testComponentB, testComponentC}

	tests := []struct {
		name    string
		exclude []common.Address
		want    int64
	}{
		{name: "nothing excluded", want: 0},
		{name: "first component", exclude: []common.Address{testComponentA}, want: 1},
		{name: "third component", exclude: []common.Address{testComponentC}, want: 4},
		{name: "first and third", exclude: []common.Address{testComponentA, testComponentC}, want: 5},
		{name: "non-component ignored", exclude: []common.Address{testWETH}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := componentExclusionBitmask(components, tt.exclude)
			require.Zero(t, big.NewInt(tt.want).Cmp(mask))
		})
	}
}
