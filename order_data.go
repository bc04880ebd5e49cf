package setprotocol

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Exchange ids the Core contract routes serialized liquidity orders by.
const (
	ExchangeIDZeroEx      uint8 = 1
	ExchangeIDKyber       uint8 = 2
	ExchangeIDTakerWallet uint8 = 3
)

// SerializeLiquidityOrders encodes validated liquidity orders into the byte
// blob Core.fillOrder consumes. Orders are grouped by exchange, each group
// prefixed with a header of (exchange id, order count, body length), all
// values packed to 32 bytes. Group order is fixed: 0x, Kyber, taker wallet.
func SerializeLiquidityOrders(liquidityOrders []LiquidityOrder) ([]byte, error) {
	var zeroEx []ZeroExSignedFillOrder
	var kyber []KyberTrade
	var takerWallet []TakerWalletOrder

	for _, leg := range liquidityOrders {
		switch leg := leg.(type) {
		case ZeroExSignedFillOrder:
			zeroEx = append(zeroEx, leg)
		case KyberTrade:
			kyber = append(kyber, leg)
		case TakerWalletOrder:
			takerWallet = append(takerWallet, leg)
		}
	}

	var data []byte

	if len(zeroEx) > 0 {
		var body []byte
		for _, order := range zeroEx {
			body = append(body, serializeZeroExOrder(order)...)
		}
		data = appendExchangeGroup(data, ExchangeIDZeroEx, len(zeroEx), body)
	}

	if len(kyber) > 0 {
		var body []byte
		for _, trade := range kyber {
			body = append(body, serializeKyberTrade(trade)...)
		}
		data = appendExchangeGroup(data, ExchangeIDKyber, len(kyber), body)
	}

	if len(takerWallet) > 0 {
		var body []byte
		for _, order := range takerWallet {
			body = append(body, serializeTakerWalletOrder(order)...)
		}
		data = appendExchangeGroup(data, ExchangeIDTakerWallet, len(takerWallet), body)
	}

	return data, nil
}

func appendExchangeGroup(data []byte, exchangeID uint8, orderCount int, body []byte) []byte {
	data = append(data, padUint(big.NewInt(int64(exchangeID)))...)
	data = append(data, padUint(big.NewInt(int64(orderCount)))...)
	data = append(data, padUint(big.NewInt(int64(len(body))))...)
	return append(data, body...)
}

func serializeTakerWalletOrder(order TakerWalletOrder) []byte {
	packed := make([]byte, 0, 64)
	packed = append(packed, padAddress(order.TakerTokenAddress)...)
	packed = append(packed, padUint(order.TakerTokenAmount)...)
	return packed
}

func serializeKyberTrade(trade KyberTrade) []byte {
	packed := make([]byte, 0, 160)
	packed = append(packed, padAddress(trade.SourceToken)...)
	packed = append(packed, padAddress(trade.DestinationToken)...)
	packed = append(packed, padUint(trade.SourceTokenQuantity)...)
	packed = append(packed, padUint(trade.MaxDestinationQuantity)...)
	packed = append(packed, padUint(trade.MinimumConversionRate)...)
	return packed
}

func serializeZeroExOrder(order ZeroExSignedFillOrder) []byte {
	// The 0x order body carries its own lengths so the exchange wrapper can
	// slice out the variable-length signature and asset data.
	orderBody := make([]byte, 0, 256)
	orderBody = append(orderBody, padAddress(order.ExchangeAddress)...)
	orderBody = append(orderBody, padAddress(order.MakerAddress)...)
	orderBody = append(orderBody, padAddress(order.TakerAddress)...)
	orderBody = append(orderBody, padUint(order.MakerAssetAmount)...)
	orderBody = append(orderBody, padUint(order.TakerAssetAmount)...)
	orderBody = append(orderBody, padUint(order.Expiration)...)
	orderBody = append(orderBody, padUint(order.Salt)...)
	orderBody = append(orderBody, padUint(big.NewInt(int64(len(order.MakerAssetData))))...)
	orderBody = append(orderBody, padUint(big.NewInt(int64(len(order.TakerAssetData))))...)
	orderBody = append(orderBody, order.MakerAssetData...)
	orderBody = append(orderBody, order.TakerAssetData...)

	packed := make([]byte, 0, 96+len(order.Signature)+len(orderBody))
	packed = append(packed, padUint(big.NewInt(int64(len(order.Signature))))...)
	packed = append(packed, padUint(big.NewInt(int64(len(orderBody))))...)
	packed = append(packed, padUint(order.FillAmount)...)
	packed = append(packed, order.Signature...)
	packed = append(packed, orderBody...)
	return packed
}

func padAddress(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), 32)
}

func padUint(value *big.Int) []byte {
	return common.LeftPadBytes(value.Bytes(), 32)
}
