package setprotocol

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/SetProtocol/setprotocol-go/chain"
)

func TestIssuanceOrderHash_FixedVector(t *testing.T) {
	order := IssuanceOrder{
		SetAddress:       common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		MakerAddress:     common.HexToAddress("0x00000000000000000000000000000000000000a2"),
		MakerToken:       common.HexToAddress("0x00000000000000000000000000000000000000b1"),
		RelayerAddress:   common.HexToAddress("0x00000000000000000000000000000000000000d2"),
		RelayerToken:     common.HexToAddress("0x00000000000000000000000000000000000000b2"),
		Quantity:         big.NewInt(100),
		MakerTokenAmount: big.NewInt(80),
		Expiration:       big.NewInt(1700000000),
		MakerRelayerFee:  big.NewInt(3),
		TakerRelayerFee:  big.NewInt(4),
		RequiredComponents: []common.Address{
			common.HexToAddress("0x00000000000000000000000000000000000000c1"),
			common.HexToAddress("0x00000000000000000000000000000000000000c2"),
		},
		RequiredComponentAmounts: []*big.Int{big.NewInt(40), big.NewInt(60)},
		Salt:                     big.NewInt(12345),
	}

	require.Equal(t,
		"0x440eb0f0e05cc265993c9134b626eb3eccbfe5598502f236126925d05b5207b6",
		order.Hash().Hex(),
	)
}

func TestZeroExSignedFillOrder_AssetAddresses(t *testing.T) {
	component := common.HexToAddress("0x00000000000000000000000000000000000000c2")
	weth := common.HexToAddress("0x00000000000000000000000000000000000000b1")

	order := ZeroExSignedFillOrder{
		MakerAssetData: chain.EncodeERC20AssetData(component),
		TakerAssetData: chain.EncodeERC20AssetData(weth),
	}

	makerAsset, err := order.MakerAssetAddress()
	require.NoError(t, err)
	require.Equal(t, component, makerAsset)

	takerAsset, err := order.TakerAssetAddress()
	require.NoError(t, err)
	require.Equal(t, weth, takerAsset)

	order.MakerAssetData = []byte{0x01}
	_, err = order.MakerAssetAddress()
	require.ErrorIs(t, err, chain.ErrInvalidAssetData)
}
