package setprotocol

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// ProtocolReader is the read-only view of on-chain state the order
// assertions consult. chain.Caller satisfies it; tests substitute an
// in-memory implementation.
type ProtocolReader interface {
	BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error)
	AllowanceOf(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	ComponentsOf(ctx context.Context, setToken common.Address) ([]common.Address, error)
	NaturalUnitOf(ctx context.Context, setToken common.Address) (*big.Int, error)
	OrderFills(ctx context.Context, orderHash common.Hash) (*big.Int, error)
	OrderCancels(ctx context.Context, orderHash common.Hash) (*big.Int, error)
	VaultBalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error)
}

// OrderAssertions validates issuance orders and the liquidity supplied to
// fill them before any gas is spent. Every check is a pure function of its
// inputs plus fresh reads through the ProtocolReader; no call mutates
// anything, so a failed or abandoned validation needs no cleanup.
type OrderAssertions struct {
	reader        ProtocolReader
	transferProxy common.Address
}

// NewOrderAssertions returns assertions backed by the given reader. The
// transfer proxy address is the spender all protocol transfers route
// through, so allowances are checked against it.
func NewOrderAssertions(reader ProtocolReader, transferProxy common.Address) *OrderAssertions {
	return &OrderAssertions{
		reader:        reader,
		transferProxy: transferProxy,
	}
}

// FillableQuantity returns the quantity of an order that remains open given
// the protocol's recorded filled and cancelled totals. Inputs come from
// authoritative contract state; only malformed (negative) values error.
func FillableQuantity(quantity, filledAmount, cancelledAmount *big.Int) (*big.Int, error) {
	if quantity == nil || quantity.Sign() <= 0 {
		return nil, &NonPositiveQuantityError{Field: "quantity", Quantity: quantity}
	}
	if filledAmount == nil || filledAmount.Sign() < 0 {
		return nil, fmt.Errorf("filledAmount must be non-negative, got %s", filledAmount)
	}
	if cancelledAmount == nil || cancelledAmount.Sign() < 0 {
		return nil, fmt.Errorf("cancelledAmount must be non-negative, got %s", cancelledAmount)
	}

	fillable := new(big.Int).Sub(quantity, filledAmount)
	return fillable.Sub(fillable, cancelledAmount), nil
}

// IsIssuanceOrderFillable asserts that an order can still be filled for
// fillQuantity: not expired, enough quantity open, fill aligned to the
// set's natural unit, and the maker funded and approved for the payment
// the fill fraction requires. The expiration check runs before any chain
// read. The first violated precondition is returned.
func (a *OrderAssertions) IsIssuanceOrderFillable(
	ctx context.Context,
	order *SignedIssuanceOrder,
	fillQuantity *big.Int,
) error {
	if err := assertNotExpired(order.Expiration); err != nil {
		return err
	}

	fillable, err := a.fillableQuantity(ctx, order)
	if err != nil {
		return err
	}
	if fillQuantity.Cmp(fillable) > 0 {
		return &FillExceedsAvailableError{
			FillQuantity:     fillQuantity,
			FillableQuantity: fillable,
		}
	}

	if err := a.assertMultipleOfNaturalUnit(ctx, order.SetAddress, fillQuantity); err != nil {
		return err
	}

	// The maker approves the full order's payment up front; balance only
	// needs to cover the fraction being filled now.
	if err := a.assertSufficientAllowance(ctx, order.MakerToken, order.MakerAddress, a.transferProxy, order.MakerTokenAmount); err != nil {
		return err
	}

	requiredMakerToken := CalculatePartialAmount(order.MakerTokenAmount, fillQuantity, order.Quantity)
	return a.assertSufficientBalance(ctx, order.MakerToken, order.MakerAddress, requiredMakerToken)
}

// IsValidIssuanceOrder asserts that an order's fields are internally
// consistent and that its required component schedule names actual
// components of the target set. Run before hashing and signing a new order.
func (a *OrderAssertions) IsValidIssuanceOrder(ctx context.Context, order *IssuanceOrder) error {
	for field, addr := range map[string]common.Address{
		"setAddress":   order.SetAddress,
		"makerAddress": order.MakerAddress,
		"makerToken":   order.MakerToken,
	} {
		if addr == (common.Address{}) {
			return fmt.Errorf("%s: %w", field, ErrZeroAddress)
		}
	}

	if err := assertNotExpired(order.Expiration); err != nil {
		return err
	}
	if err := assertPositive("quantity", order.Quantity); err != nil {
		return err
	}
	if err := assertPositive("makerTokenAmount", order.MakerTokenAmount); err != nil {
		return err
	}

	if len(order.RequiredComponents) != len(order.RequiredComponentAmounts) {
		return ErrComponentsLengthMismatch
	}
	if len(order.RequiredComponents) == 0 {
		return ErrNoComponents
	}

	for i, component := range order.RequiredComponents {
		if component == (common.Address{}) {
			return fmt.Errorf("requiredComponents[%d]: %w", i, ErrZeroAddress)
		}
		if err := assertPositive("requiredComponentAmounts", order.RequiredComponentAmounts[i]); err != nil {
			return err
		}
		if err := a.assertIsComponent(ctx, order.SetAddress, component); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSetCreation asserts that the parameters for deploying a new set
// token are internally consistent: a named factory, parallel non-empty
// component/unit schedules with positive amounts, a positive natural unit,
// and non-empty name and symbol.
func (a *OrderAssertions) ValidateSetCreation(
	ctx context.Context,
	factory common.Address,
	components []common.Address,
	units []*big.Int,
	naturalUnit *big.Int,
	name string,
	symbol string,
) error {
	if factory == (common.Address{}) {
		return fmt.Errorf("factory: %w", ErrZeroAddress)
	}
	if len(components) != len(units) {
		return ErrUnitsLengthMismatch
	}
	if len(components) == 0 {
		return ErrNoComponents
	}
	if err := assertPositive("naturalUnit", naturalUnit); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("name: %w", ErrEmptyString)
	}
	if symbol == "" {
		return fmt.Errorf("symbol: %w", ErrEmptyString)
	}

	for i, component := range components {
		if component == (common.Address{}) {
			return fmt.Errorf("components[%d]: %w", i, ErrZeroAddress)
		}
		if err := assertPositive("units", units[i]); err != nil {
			return err
		}
	}

	return nil
}

// ValidateBatchDeposit asserts that every token in a batch deposit is funded
// and approved by the depositor for its quantity.
func (a *OrderAssertions) ValidateBatchDeposit(
	ctx context.Context,
	owner common.Address,
	tokens []common.Address,
	quantities []*big.Int,
) error {
	if err := validateBatchArgs(tokens, quantities); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range tokens {
		token, quantity := tokens[i], quantities[i]
		group.Go(func() error {
			if err := a.assertSufficientBalance(groupCtx, token, owner, quantity); err != nil {
				return err
			}
			return a.assertSufficientAllowance(groupCtx, token, owner, a.transferProxy, quantity)
		})
	}
	return group.Wait()
}

// ValidateBatchWithdraw asserts that the vault attributes enough of every
// token to the withdrawer.
func (a *OrderAssertions) ValidateBatchWithdraw(
	ctx context.Context,
	owner common.Address,
	tokens []common.Address,
	quantities []*big.Int,
) error {
	if err := validateBatchArgs(tokens, quantities); err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range tokens {
		token, quantity := tokens[i], quantities[i]
		group.Go(func() error {
			return a.assertSufficientVaultBalance(groupCtx, token, owner, quantity)
		})
	}
	return group.Wait()
}

func validateBatchArgs(tokens []common.Address, quantities []*big.Int) error {
	if len(tokens) != len(quantities) {
		return ErrBatchLengthMismatch
	}
	if len(tokens) == 0 {
		return ErrEmptyBatch
	}
	for i, token := range tokens {
		if token == (common.Address{}) {
			return fmt.Errorf("tokens[%d]: %w", i, ErrZeroAddress)
		}
		if err := assertPositive("quantities", quantities[i]); err != nil {
			return err
		}
	}
	return nil
}

// AssertLiquidityValidity asserts that the supplied liquidity orders can
// legitimately fill fillQuantity of the issuance order: each leg is
// internally consistent and funded, the per-component totals land exactly
// on the pro-rated requirements, and the maker token consumed across legs
// stays within the maker's budget for the fill fraction.
func (a *OrderAssertions) AssertLiquidityValidity(
	ctx context.Context,
	taker common.Address,
	order *SignedIssuanceOrder,
	fillQuantity *big.Int,
	liquidityOrders []LiquidityOrder,
) error {
	// Per-leg checks have no ordering dependency on each other, so their
	// balance/allowance/membership reads run concurrently.
	group, groupCtx := errgroup.WithContext(ctx)
	for _, liquidityOrder := range liquidityOrders {
		leg := liquidityOrder
		group.Go(func() error {
			return a.validateLiquidityOrder(groupCtx, taker, order, leg)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if err := assertExactComponentAmounts(&order.IssuanceOrder, fillQuantity, liquidityOrders); err != nil {
		return err
	}

	return assertSufficientMakerTokenBudget(&order.IssuanceOrder, fillQuantity, liquidityOrders)
}

/* ============ Per-kind liquidity validation ============ */

func (a *OrderAssertions) validateLiquidityOrder(
	ctx context.Context,
	taker common.Address,
	order *SignedIssuanceOrder,
	leg LiquidityOrder,
) error {
	switch leg := leg.(type) {
	case TakerWalletOrder:
		return a.validateTakerWalletOrder(ctx, taker, order, leg)
	case ZeroExSignedFillOrder:
		return a.validateZeroExOrder(ctx, order, leg)
	case KyberTrade:
		return a.validateKyberTrade(ctx, order, leg)
	default:
		return fmt.Errorf("unsupported liquidity order type %T", leg)
	}
}

func (a *OrderAssertions) validateTakerWalletOrder(
	ctx context.Context,
	taker common.Address,
	order *SignedIssuanceOrder,
	leg TakerWalletOrder,
) error {
	if err := assertPositive("takerTokenAmount", leg.TakerTokenAmount); err != nil {
		return err
	}

	if err := a.assertIsComponent(ctx, order.SetAddress, leg.TakerTokenAddress); err != nil {
		return err
	}

	if err := a.assertSufficientBalance(ctx, leg.TakerTokenAddress, taker, leg.TakerTokenAmount); err != nil {
		return err
	}

	return a.assertSufficientAllowance(ctx, leg.TakerTokenAddress, taker, a.transferProxy, leg.TakerTokenAmount)
}

func (a *OrderAssertions) validateZeroExOrder(
	ctx context.Context,
	order *SignedIssuanceOrder,
	leg ZeroExSignedFillOrder,
) error {
	if err := assertPositive("fillAmount", leg.FillAmount); err != nil {
		return err
	}

	takerAsset, err := leg.TakerAssetAddress()
	if err != nil {
		return err
	}
	if takerAsset != order.MakerToken {
		return &MakerTokenTakerTokenMismatchError{
			MakerToken: order.MakerToken,
			TakerAsset: takerAsset,
		}
	}

	makerAsset, err := leg.MakerAssetAddress()
	if err != nil {
		return err
	}
	if err := a.assertIsComponent(ctx, order.SetAddress, makerAsset); err != nil {
		return err
	}

	// The 0x maker must be able to deliver the full maker side of the order.
	return a.assertSufficientBalance(ctx, makerAsset, leg.MakerAddress, leg.MakerAssetAmount)
}

func (a *OrderAssertions) validateKyberTrade(
	ctx context.Context,
	order *SignedIssuanceOrder,
	leg KyberTrade,
) error {
	if err := assertPositive("sourceTokenQuantity", leg.SourceTokenQuantity); err != nil {
		return err
	}

	if leg.SourceToken != order.MakerToken {
		return &SourceTokenMismatchError{
			MakerToken:  order.MakerToken,
			SourceToken: leg.SourceToken,
		}
	}
	if leg.DestinationToken == order.MakerToken {
		return &DestinationTokenMismatchError{Token: order.MakerToken}
	}

	if err := a.assertIsComponent(ctx, order.SetAddress, leg.DestinationToken); err != nil {
		return err
	}

	// The floor rate must guarantee the stated destination cap, otherwise
	// the trade cannot deliver the amount being credited to the fill.
	guaranteedYield := new(big.Int).Mul(leg.MinimumConversionRate, leg.SourceTokenQuantity)
	if guaranteedYield.Cmp(leg.MaxDestinationQuantity) < 0 {
		return &InsufficientRateForDestinationAmountError{
			DestinationToken:       leg.DestinationToken,
			SourceTokenQuantity:    leg.SourceTokenQuantity,
			GuaranteedYield:        guaranteedYield,
			MaxDestinationQuantity: leg.MaxDestinationQuantity,
		}
	}

	return nil
}

/* ============ Aggregation and reconciliation ============ */

// liquidityContributions builds the per-component ledger of amounts the
// liquidity orders supply:
//
//   - a taker wallet order contributes its full amount to its token,
//   - a 0x order contributes the maker-side amount its fill releases,
//     makerAssetAmount * fillAmount / takerAssetAmount,
//   - a Kyber trade contributes its guaranteed destination cap.
//
// Contributions to the same component accumulate.
func liquidityContributions(liquidityOrders []LiquidityOrder) (map[common.Address]*big.Int, error) {
	ledger := make(map[common.Address]*big.Int, len(liquidityOrders))

	accumulate := func(component common.Address, amount *big.Int) {
		if existing, ok := ledger[component]; ok {
			ledger[component] = new(big.Int).Add(existing, amount)
		} else {
			ledger[component] = amount
		}
	}

	for _, leg := range liquidityOrders {
		switch leg := leg.(type) {
		case TakerWalletOrder:
			accumulate(leg.TakerTokenAddress, leg.TakerTokenAmount)
		case ZeroExSignedFillOrder:
			makerAsset, err := leg.MakerAssetAddress()
			if err != nil {
				return nil, err
			}
			released := CalculatePartialAmount(leg.MakerAssetAmount, leg.FillAmount, leg.TakerAssetAmount)
			accumulate(makerAsset, released)
		case KyberTrade:
			accumulate(leg.DestinationToken, leg.MaxDestinationQuantity)
		}
	}

	return ledger, nil
}

// makerTokensUsed sums the payment token the liquidity orders consume. Only
// 0x fills and Kyber trades spend maker token; taker wallet orders are
// direct transfers of already-owned components.
func makerTokensUsed(liquidityOrders []LiquidityOrder) *big.Int {
	used := new(big.Int)
	for _, leg := range liquidityOrders {
		switch leg := leg.(type) {
		case ZeroExSignedFillOrder:
			used.Add(used, leg.FillAmount)
		case KyberTrade:
			used.Add(used, leg.SourceTokenQuantity)
		}
	}
	return used
}

// assertExactComponentAmounts requires the ledger total for every required
// component to equal the pro-rated requirement exactly. Oversupply fails
// like undersupply: the fill transaction settles precisely the pro-rated
// schedule, so excess liquidity indicates a mis-constructed fill.
func assertExactComponentAmounts(order *IssuanceOrder, fillQuantity *big.Int, liquidityOrders []LiquidityOrder) error {
	ledger, err := liquidityContributions(liquidityOrders)
	if err != nil {
		return err
	}

	for i, component := range order.RequiredComponents {
		required := CalculatePartialAmount(order.RequiredComponentAmounts[i], fillQuantity, order.Quantity)

		supplied, ok := ledger[component]
		if !ok {
			supplied = new(big.Int)
		}

		if supplied.Cmp(required) != 0 {
			return &InsufficientComponentAmountError{
				Component: component,
				Supplied:  supplied,
				Required:  required,
			}
		}
	}

	return nil
}

// assertSufficientMakerTokenBudget requires the maker token consumed across
// legs to stay within the budget the fill fraction implies. The budget need
// not be spent exactly: any remainder settles as direct maker token
// transfer for components covered from the taker's wallet.
func assertSufficientMakerTokenBudget(order *IssuanceOrder, fillQuantity *big.Int, liquidityOrders []LiquidityOrder) error {
	used := makerTokensUsed(liquidityOrders)
	budget := CalculatePartialAmount(order.MakerTokenAmount, fillQuantity, order.Quantity)

	if budget.Cmp(used) < 0 {
		return &InsufficientMakerTokenError{Budget: budget, Used: used}
	}
	return nil
}

/* ============ Read-backed preconditions ============ */

func (a *OrderAssertions) fillableQuantity(ctx context.Context, order *SignedIssuanceOrder) (*big.Int, error) {
	orderHash := order.Hash()

	filled, err := a.reader.OrderFills(ctx, orderHash)
	if err != nil {
		return nil, &QueryFailedError{Op: "orderFills", Err: err}
	}
	cancelled, err := a.reader.OrderCancels(ctx, orderHash)
	if err != nil {
		return nil, &QueryFailedError{Op: "orderCancels", Err: err}
	}

	return FillableQuantity(order.Quantity, filled, cancelled)
}

func (a *OrderAssertions) assertMultipleOfNaturalUnit(ctx context.Context, setToken common.Address, quantity *big.Int) error {
	naturalUnit, err := a.reader.NaturalUnitOf(ctx, setToken)
	if err != nil {
		return &QueryFailedError{Op: "naturalUnit", Err: err}
	}
	// A non-positive natural unit means the contract at setToken is not a
	// well-formed set token.
	if naturalUnit == nil || naturalUnit.Sign() <= 0 {
		return &QueryFailedError{
			Op:  "naturalUnit",
			Err: fmt.Errorf("set %s reports natural unit %s", setToken.Hex(), naturalUnit),
		}
	}

	if new(big.Int).Mod(quantity, naturalUnit).Sign() != 0 {
		return &NotMultipleOfNaturalUnitError{
			SetAddress:  setToken,
			Quantity:    quantity,
			NaturalUnit: naturalUnit,
		}
	}
	return nil
}

func (a *OrderAssertions) assertIsComponent(ctx context.Context, setToken, candidate common.Address) error {
	components, err := a.reader.ComponentsOf(ctx, setToken)
	if err != nil {
		return &QueryFailedError{Op: "getComponents", Err: err}
	}

	for _, component := range components {
		if component == candidate {
			return nil
		}
	}
	return &NotAComponentError{SetAddress: setToken, Token: candidate}
}

func (a *OrderAssertions) assertSufficientBalance(ctx context.Context, token, owner common.Address, required *big.Int) error {
	balance, err := a.reader.BalanceOf(ctx, token, owner)
	if err != nil {
		return &QueryFailedError{Op: "balanceOf", Err: err}
	}

	if balance.Cmp(required) < 0 {
		return &InsufficientBalanceError{
			Token:    token,
			Owner:    owner,
			Current:  balance,
			Required: required,
		}
	}
	return nil
}

func (a *OrderAssertions) assertSufficientVaultBalance(ctx context.Context, token, owner common.Address, required *big.Int) error {
	balance, err := a.reader.VaultBalanceOf(ctx, token, owner)
	if err != nil {
		return &QueryFailedError{Op: "getOwnerBalance", Err: err}
	}

	if balance.Cmp(required) < 0 {
		return &InsufficientVaultBalanceError{
			Token:    token,
			Owner:    owner,
			Current:  balance,
			Required: required,
		}
	}
	return nil
}

func (a *OrderAssertions) assertSufficientAllowance(ctx context.Context, token, owner, spender common.Address, required *big.Int) error {
	allowance, err := a.reader.AllowanceOf(ctx, token, owner, spender)
	if err != nil {
		return &QueryFailedError{Op: "allowance", Err: err}
	}

	if allowance.Cmp(required) < 0 {
		return &InsufficientAllowanceError{
			Token:    token,
			Owner:    owner,
			Spender:  spender,
			Current:  allowance,
			Required: required,
		}
	}
	return nil
}

func assertNotExpired(expiration *big.Int) error {
	now := time.Now().Unix()
	if expiration == nil || expiration.Cmp(big.NewInt(now)) <= 0 {
		return &ExpiredOrderError{Expiration: expiration, Now: now}
	}
	return nil
}

func assertPositive(field string, quantity *big.Int) error {
	if quantity == nil || quantity.Sign() <= 0 {
		return &NonPositiveQuantityError{Field: field, Quantity: quantity}
	}
	return nil
}
