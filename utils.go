package setprotocol

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

var maxSalt = new(big.Int).Lsh(big.NewInt(1), 256)

// CalculatePartialAmount scales principal by the ratio numerator/denominator
// using truncating integer division, multiplying before dividing. The order
// of operations matches the on-chain fixed-point arithmetic exactly;
// dividing first silently diverges from the contracts' accounting.
func CalculatePartialAmount(principal, numerator, denominator *big.Int) *big.Int {
	partial := new(big.Int).Mul(principal, numerator)
	return partial.Div(partial, denominator)
}

// GenerateSalt returns a pseudo-random 256-bit salt. Including it in an
// order guarantees a unique order hash for otherwise identical terms.
func GenerateSalt() *big.Int {
	salt, err := rand.Int(rand.Reader, maxSalt)
	if err != nil {
		panic(fmt.Sprintf("failed to read random salt: %v", err))
	}
	return salt
}

// GenerateExpirationTimestamp returns a unix-seconds expiration the given
// duration from now, for use as an issuance order expiration.
func GenerateExpirationTimestamp(fromNow time.Duration) *big.Int {
	return big.NewInt(time.Now().Add(fromNow).Unix())
}
