package chain

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// erc20ProxyID is the 4-byte selector of ERC20Token(address), the asset
// proxy encoding used for plain token assets in 0x orders.
var erc20ProxyID = []byte{0xf4, 0x72, 0x61, 0xb0}

var ErrInvalidAssetData = errors.New("invalid ERC20 asset data")

// EncodeERC20AssetData encodes a token address as 0x ERC20 asset data:
// the proxy selector followed by the left-padded address.
func EncodeERC20AssetData(token common.Address) []byte {
	data := make([]byte, 0, 36)
	data = append(data, erc20ProxyID...)
	data = append(data, common.LeftPadBytes(token.Bytes(), 32)...)
	return data
}

// ExtractAddressFromAssetData decodes the token address out of 0x ERC20
// asset data.
func ExtractAddressFromAssetData(assetData []byte) (common.Address, error) {
	if len(assetData) != 36 || !bytes.Equal(assetData[:4], erc20ProxyID) {
		return common.Address{}, ErrInvalidAssetData
	}
	return common.BytesToAddress(assetData[16:36]), nil
}
