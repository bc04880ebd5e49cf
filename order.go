package setprotocol

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/SetProtocol/setprotocol-go/chain"
)

// IssuanceOrder is a maker's offer to pay makerTokenAmount of MakerToken in
// exchange for Quantity of the set token at SetAddress being issued to them,
// collateralized by fillers supplying the required component schedule.
//
// Orders are value objects: once signed they are never mutated, and new
// terms require a new order. RequiredComponents and RequiredComponentAmounts
// are parallel arrays scoped to the full order quantity.
type IssuanceOrder struct {
	SetAddress               common.Address
	MakerAddress             common.Address
	MakerToken               common.Address
	RelayerAddress           common.Address
	RelayerToken             common.Address
	Quantity                 *big.Int
	MakerTokenAmount         *big.Int
	Expiration               *big.Int // unix seconds
	MakerRelayerFee          *big.Int
	TakerRelayerFee          *big.Int
	RequiredComponents       []common.Address
	RequiredComponentAmounts []*big.Int
	Salt                     *big.Int
}

// SignedIssuanceOrder is an issuance order together with the maker's
// signature over its canonical hash.
type SignedIssuanceOrder struct {
	IssuanceOrder
	Signature chain.ECSignature
}

// Hash returns the canonical order hash the Core contract accounts fills and
// cancels against. The signature is not part of the hash.
func (o *IssuanceOrder) Hash() common.Hash {
	addresses, values := o.contractForm()
	return chain.GenerateOrderHash(addresses, values, o.RequiredComponents, o.RequiredComponentAmounts)
}

// contractForm flattens the order into the fixed-size arrays Core.fillOrder
// and Core.cancelOrder consume.
func (o *IssuanceOrder) contractForm() ([5]common.Address, [6]*big.Int) {
	addresses := [5]common.Address{
		o.SetAddress,
		o.MakerAddress,
		o.MakerToken,
		o.RelayerAddress,
		o.RelayerToken,
	}
	values := [6]*big.Int{
		o.Quantity,
		o.MakerTokenAmount,
		o.Expiration,
		o.MakerRelayerFee,
		o.TakerRelayerFee,
		o.Salt,
	}
	return addresses, values
}

// LiquidityOrder is one leg of liquidity a filler supplies to cover part of
// an issuance order's required components. The type is closed: the three
// implementations below are the only liquidity sources the protocol settles.
type LiquidityOrder interface {
	liquidityOrder()
}

// TakerWalletOrder transfers component tokens the filler already owns
// directly into the issuance. It consumes none of the maker's payment token.
type TakerWalletOrder struct {
	TakerTokenAddress common.Address
	TakerTokenAmount  *big.Int
}

func (TakerWalletOrder) liquidityOrder() {}

// ZeroExSignedFillOrder fills an off-chain-signed 0x limit order whose taker
// side is denominated in the issuance order's maker token and whose maker
// side yields a required component. Asset addresses travel in the 0x ERC20
// asset-data encoding.
type ZeroExSignedFillOrder struct {
	ExchangeAddress  common.Address
	MakerAddress     common.Address
	TakerAddress     common.Address
	MakerAssetAmount *big.Int
	TakerAssetAmount *big.Int
	MakerAssetData   []byte
	TakerAssetData   []byte
	Expiration       *big.Int
	Salt             *big.Int
	Signature        []byte
	FillAmount       *big.Int
}

func (ZeroExSignedFillOrder) liquidityOrder() {}

// MakerAssetAddress decodes the component token the 0x order pays out.
func (z ZeroExSignedFillOrder) MakerAssetAddress() (common.Address, error) {
	return chain.ExtractAddressFromAssetData(z.MakerAssetData)
}

// TakerAssetAddress decodes the token the 0x order is paid in.
func (z ZeroExSignedFillOrder) TakerAssetAddress() (common.Address, error) {
	return chain.ExtractAddressFromAssetData(z.TakerAssetData)
}

// KyberTrade swaps the issuance order's maker token for a required component
// on-chain through the Kyber reserve aggregator. MinimumConversionRate is the
// floor rate the trade executes at; MaxDestinationQuantity caps the component
// amount credited toward the order.
type KyberTrade struct {
	SourceToken            common.Address
	DestinationToken       common.Address
	SourceTokenQuantity    *big.Int
	MaxDestinationQuantity *big.Int
	MinimumConversionRate  *big.Int
}

func (KyberTrade) liquidityOrder() {}
