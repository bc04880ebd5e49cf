package chain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestERC20AssetData(t *testing.T) {
	token := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	data := EncodeERC20AssetData(token)
	require.Len(t, data, 36)
	require.Equal(t, []byte{0xf4, 0x72, 0x61, 0xb0}, data[:4])

	decoded, err := ExtractAddressFromAssetData(data)
	require.NoError(t, err)
	require.Equal(t, token, decoded)
}

func TestExtractAddressFromAssetData_Invalid(t *testing.T) {
	token := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated", data: EncodeERC20AssetData(token)[:35]},
		{name: "wrong proxy id", data: append([]byte{0x00, 0x00, 0x00, 0x00}, EncodeERC20AssetData(token)[4:]...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractAddressFromAssetData(tt.data)
			require.ErrorIs(t, err, ErrInvalidAssetData)
		})
	}
}
