package setprotocol

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrComponentsLengthMismatch is returned when an order's required
	// component and amount arrays are not parallel.
	ErrComponentsLengthMismatch = errors.New("requiredComponents and requiredComponentAmounts must be equal lengths")

	// ErrNoComponents is returned for an order with an empty required
	// component schedule.
	ErrNoComponents = errors.New("order must name at least one required component")

	// ErrZeroAddress is returned when a required address field is unset.
	ErrZeroAddress = errors.New("address must not be the zero address")

	// ErrEmptyString is returned when a required string field is empty.
	ErrEmptyString = errors.New("string must not be empty")

	// ErrUnitsLengthMismatch is returned when a set creation's component and
	// unit arrays are not parallel.
	ErrUnitsLengthMismatch = errors.New("components and units must be equal lengths")

	// ErrBatchLengthMismatch is returned when a batch operation's token and
	// quantity arrays are not parallel.
	ErrBatchLengthMismatch = errors.New("tokens and quantities must be equal lengths")

	// ErrEmptyBatch is returned for a batch operation naming no tokens.
	ErrEmptyBatch = errors.New("batch must name at least one token")
)

// ExpiredOrderError is returned when an order's expiration has passed.
type ExpiredOrderError struct {
	Expiration *big.Int
	Now        int64
}

func (e *ExpiredOrderError) Error() string {
	return fmt.Sprintf("order expired at %s, current time %d", e.Expiration, e.Now)
}

// FillExceedsAvailableError is returned when a requested fill quantity is
// greater than the order's remaining fillable quantity.
type FillExceedsAvailableError struct {
	FillQuantity     *big.Int
	FillableQuantity *big.Int
}

func (e *FillExceedsAvailableError) Error() string {
	return fmt.Sprintf("fill quantity %s exceeds fillable quantity %s", e.FillQuantity, e.FillableQuantity)
}

// NotMultipleOfNaturalUnitError is returned when a quantity is not an
// integer multiple of the set token's natural unit.
type NotMultipleOfNaturalUnitError struct {
	SetAddress  common.Address
	Quantity    *big.Int
	NaturalUnit *big.Int
}

func (e *NotMultipleOfNaturalUnitError) Error() string {
	return fmt.Sprintf("quantity %s is not a multiple of the natural unit %s of set %s",
		e.Quantity, e.NaturalUnit, e.SetAddress.Hex())
}

// InsufficientBalanceError is returned when a party holds less of a token
// than a transfer requires.
type InsufficientBalanceError struct {
	Token    common.Address
	Owner    common.Address
	Current  *big.Int
	Required *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s has balance %s of token %s when %s is required",
		e.Owner.Hex(), e.Current, e.Token.Hex(), e.Required)
}

// InsufficientAllowanceError is returned when a party has granted the
// spender less allowance of a token than a transfer requires.
type InsufficientAllowanceError struct {
	Token    common.Address
	Owner    common.Address
	Spender  common.Address
	Current  *big.Int
	Required *big.Int
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("%s has granted %s allowance %s of token %s when %s is required",
		e.Owner.Hex(), e.Spender.Hex(), e.Current, e.Token.Hex(), e.Required)
}

// InsufficientVaultBalanceError is returned when the vault attributes less
// of a token to a party than a withdrawal requires.
type InsufficientVaultBalanceError struct {
	Token    common.Address
	Owner    common.Address
	Current  *big.Int
	Required *big.Int
}

func (e *InsufficientVaultBalanceError) Error() string {
	return fmt.Sprintf("vault attributes %s of token %s to %s when %s is required",
		e.Current, e.Token.Hex(), e.Owner.Hex(), e.Required)
}

// NotAComponentError is returned when a referenced token is not a declared
// component of the target set.
type NotAComponentError struct {
	SetAddress common.Address
	Token      common.Address
}

func (e *NotAComponentError) Error() string {
	return fmt.Sprintf("token %s is not a component of set %s", e.Token.Hex(), e.SetAddress.Hex())
}

// NonPositiveQuantityError is returned when a quantity that must be strictly
// positive is zero, negative or nil.
type NonPositiveQuantityError struct {
	Field    string
	Quantity *big.Int
}

func (e *NonPositiveQuantityError) Error() string {
	return fmt.Sprintf("%s must be a positive quantity, got %s", e.Field, e.Quantity)
}

// MakerTokenTakerTokenMismatchError is returned when a 0x liquidity order's
// taker asset is not the issuance order's maker token.
type MakerTokenTakerTokenMismatchError struct {
	MakerToken common.Address
	TakerAsset common.Address
}

func (e *MakerTokenTakerTokenMismatchError) Error() string {
	return fmt.Sprintf("0x order taker asset %s does not match issuance order maker token %s",
		e.TakerAsset.Hex(), e.MakerToken.Hex())
}

// SourceTokenMismatchError is returned when a Kyber trade's source token is
// not the issuance order's maker token.
type SourceTokenMismatchError struct {
	MakerToken  common.Address
	SourceToken common.Address
}

func (e *SourceTokenMismatchError) Error() string {
	return fmt.Sprintf("kyber trade source token %s does not match issuance order maker token %s",
		e.SourceToken.Hex(), e.MakerToken.Hex())
}

// DestinationTokenMismatchError is returned when a Kyber trade's destination
// token equals the issuance order's maker token, a degenerate self-trade.
type DestinationTokenMismatchError struct {
	Token common.Address
}

func (e *DestinationTokenMismatchError) Error() string {
	return fmt.Sprintf("kyber trade destination token must differ from issuance order maker token %s", e.Token.Hex())
}

// InsufficientRateForDestinationAmountError is returned when a Kyber trade's
// guaranteed yield at the quoted floor rate cannot reach its stated
// destination cap.
type InsufficientRateForDestinationAmountError struct {
	DestinationToken       common.Address
	SourceTokenQuantity    *big.Int
	GuaranteedYield        *big.Int
	MaxDestinationQuantity *big.Int
}

func (e *InsufficientRateForDestinationAmountError) Error() string {
	return fmt.Sprintf("kyber trade of %s source tokens yields at most %s of %s, below the stated destination amount %s",
		e.SourceTokenQuantity, e.GuaranteedYield, e.DestinationToken.Hex(), e.MaxDestinationQuantity)
}

// InsufficientComponentAmountError is returned when the aggregate component
// amount supplied by the liquidity orders does not exactly equal the
// pro-rated requirement for the fill.
type InsufficientComponentAmountError struct {
	Component common.Address
	Supplied  *big.Int
	Required  *big.Int
}

func (e *InsufficientComponentAmountError) Error() string {
	return fmt.Sprintf("liquidity supplies %s of component %s, fill requires exactly %s",
		e.Supplied, e.Component.Hex(), e.Required)
}

// InsufficientMakerTokenError is returned when the payment token consumed
// across liquidity orders exceeds the maker's budget for the fill fraction.
type InsufficientMakerTokenError struct {
	Budget *big.Int
	Used   *big.Int
}

func (e *InsufficientMakerTokenError) Error() string {
	return fmt.Sprintf("liquidity orders consume %s maker tokens, budget for fill is %s", e.Used, e.Budget)
}

// QueryFailedError reports that a read against the node could not be
// completed. It is a transport condition, not a validation outcome, and is
// the one failure a caller may sensibly retry.
type QueryFailedError struct {
	Op  string
	Err error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("%s query failed: %v", e.Op, e.Err)
}

func (e *QueryFailedError) Unwrap() error {
	return e.Err
}
