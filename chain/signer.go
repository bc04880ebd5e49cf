package chain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidSignature = errors.New("invalid order signature")

// ECSignature is the {v, r, s} triple the Core contract verifies orders with.
type ECSignature struct {
	V uint8
	R common.Hash
	S common.Hash
}

// SignOrderHash signs a canonical order hash with the standard Ethereum
// signed-message prefix, matching the signature scheme the Core contract
// recovers against.
func SignOrderHash(orderHash common.Hash, key *ecdsa.PrivateKey) (ECSignature, error) {
	if key == nil {
		return ECSignature{}, errors.New("signing key is required")
	}

	sig, err := crypto.Sign(prefixedHash(orderHash).Bytes(), key)
	if err != nil {
		return ECSignature{}, fmt.Errorf("failed to sign order hash: %w", err)
	}

	return ECSignature{
		V: sig[64] + 27,
		R: common.BytesToHash(sig[:32]),
		S: common.BytesToHash(sig[32:64]),
	}, nil
}

// RecoverSigner returns the address that produced the signature over the
// given order hash.
func RecoverSigner(orderHash common.Hash, sig ECSignature) (common.Address, error) {
	if sig.V != 27 && sig.V != 28 {
		return common.Address{}, ErrInvalidSignature
	}

	raw := make([]byte, 65)
	copy(raw[:32], sig.R.Bytes())
	copy(raw[32:64], sig.S.Bytes())
	raw[64] = sig.V - 27

	pubkey, err := crypto.SigToPub(prefixedHash(orderHash).Bytes(), raw)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}

	return crypto.PubkeyToAddress(*pubkey), nil
}

func prefixedHash(orderHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(
		[]byte("\x19Ethereum Signed Message:\n32"),
		orderHash.Bytes(),
	)
}
