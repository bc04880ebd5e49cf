package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// GenerateOrderHash computes the canonical hash of an issuance order, the
// keccak256 of the contract's tightly packed encoding. The argument layout
// mirrors Core.fillOrder:
//
//	addresses: setAddress, makerAddress, makerToken, relayerAddress, relayerToken
//	values:    quantity, makerTokenAmount, expiration, makerRelayerFee,
//	           takerRelayerFee, salt
//
// Addresses pack to 20 bytes, scalar values to 32 bytes, and each array
// element to 32 bytes. A nil value packs as zero, matching an unset uint256.
// The signature is not part of the hash. This encoding is a fixed protocol
// contract; outstanding signed orders break if it moves.
func GenerateOrderHash(
	addresses [5]common.Address,
	values [6]*big.Int,
	requiredComponents []common.Address,
	requiredComponentAmounts []*big.Int,
) common.Hash {
	size := 5*20 + 6*32 + len(requiredComponents)*32 + len(requiredComponentAmounts)*32
	packed := make([]byte, 0, size)

	for _, addr := range addresses {
		packed = append(packed, addr.Bytes()...)
	}
	for _, value := range values {
		packed = append(packed, padValue(value)...)
	}
	for _, component := range requiredComponents {
		packed = append(packed, common.LeftPadBytes(component.Bytes(), 32)...)
	}
	for _, amount := range requiredComponentAmounts {
		packed = append(packed, padValue(amount)...)
	}

	return crypto.Keccak256Hash(packed)
}

func padValue(value *big.Int) []byte {
	if value == nil {
		return make([]byte, 32)
	}
	return common.LeftPadBytes(value.Bytes(), 32)
}
