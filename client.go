package setprotocol

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/SetProtocol/setprotocol-go/chain"
)

// Client is the main SDK entry point. It validates protocol operations
// client-side before constructing and submitting the corresponding contract
// calls, so callers do not spend gas on transactions that would revert.
type Client struct {
	caller *chain.Caller
	assert *OrderAssertions
	logger *slog.Logger
}

// NewClient creates a new protocol client from the given configuration.
func NewClient(config Config) (*Client, error) {
	supported := false
	for _, networkID := range SupportedNetworkIDs {
		if config.NetworkID == networkID {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("network_id must be one of %v", SupportedNetworkIDs)
	}

	defaults := DefaultContractAddresses[config.NetworkID]
	if config.CoreAddress == "" {
		config.CoreAddress = defaults.Core
	}
	if config.TransferProxyAddress == "" {
		config.TransferProxyAddress = defaults.TransferProxy
	}
	if config.VaultAddress == "" {
		config.VaultAddress = defaults.Vault
	}
	if config.SetDetailsCacheTTL == 0 {
		config.SetDetailsCacheTTL = 10 * time.Minute
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	caller, err := chain.NewCaller(
		config.RPCURL,
		config.PrivateKey,
		config.CoreAddress,
		config.TransferProxyAddress,
		config.VaultAddress,
		config.SetDetailsCacheTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract caller: %w", err)
	}

	return &Client{
		caller: caller,
		assert: NewOrderAssertions(caller, caller.TransferProxyAddress()),
		logger: config.Logger,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	if c.caller != nil {
		c.caller.Close()
	}
}

/* ============ Issuance orders ============ */

// CreateSignedIssuanceOrder validates the order terms, assigns a salt if
// none is set, and signs the canonical order hash with the client's key.
func (c *Client) CreateSignedIssuanceOrder(ctx context.Context, order IssuanceOrder) (*SignedIssuanceOrder, error) {
	if order.Salt == nil {
		order.Salt = GenerateSalt()
	}
	if order.MakerRelayerFee == nil {
		order.MakerRelayerFee = new(big.Int)
	}
	if order.TakerRelayerFee == nil {
		order.TakerRelayerFee = new(big.Int)
	}

	if err := c.assert.IsValidIssuanceOrder(ctx, &order); err != nil {
		return nil, err
	}

	orderHash := order.Hash()
	sig, err := chain.SignOrderHash(orderHash, c.caller.SignerKey())
	if err != nil {
		return nil, err
	}

	c.logger.Debug("created signed issuance order",
		slog.String("order_hash", orderHash.Hex()),
		slog.String("set", order.SetAddress.Hex()),
		slog.String("quantity", order.Quantity.String()),
	)

	return &SignedIssuanceOrder{IssuanceOrder: order, Signature: sig}, nil
}

// ValidateOrderFillable checks whether the order can currently be filled
// for fillQuantity, returning the first violated precondition.
func (c *Client) ValidateOrderFillable(ctx context.Context, order *SignedIssuanceOrder, fillQuantity *big.Int) error {
	return c.assert.IsIssuanceOrderFillable(ctx, order, fillQuantity)
}

// ValidateLiquidity checks whether the supplied liquidity orders exactly
// satisfy the order's pro-rated component schedule for fillQuantity, with
// taker as the party supplying wallet-sourced components.
func (c *Client) ValidateLiquidity(
	ctx context.Context,
	taker common.Address,
	order *SignedIssuanceOrder,
	fillQuantity *big.Int,
	liquidityOrders []LiquidityOrder,
) error {
	return c.assert.AssertLiquidityValidity(ctx, taker, order, fillQuantity, liquidityOrders)
}

// ValidateOrderSignature checks that the order's signature recovers to its
// maker address.
func (c *Client) ValidateOrderSignature(order *SignedIssuanceOrder) error {
	signer, err := chain.RecoverSigner(order.Hash(), order.Signature)
	if err != nil {
		return err
	}
	if signer != order.MakerAddress {
		return chain.ErrInvalidSignature
	}
	return nil
}

// FillIssuanceOrder validates a fill end to end and submits it. The taker
// is the client's signer. Returns the transaction hash.
func (c *Client) FillIssuanceOrder(
	ctx context.Context,
	order *SignedIssuanceOrder,
	fillQuantity *big.Int,
	liquidityOrders []LiquidityOrder,
) (common.Hash, error) {
	taker := c.caller.SignerAddress()

	if err := c.assert.IsIssuanceOrderFillable(ctx, order, fillQuantity); err != nil {
		return common.Hash{}, err
	}
	if err := c.assert.AssertLiquidityValidity(ctx, taker, order, fillQuantity, liquidityOrders); err != nil {
		return common.Hash{}, err
	}

	orderData, err := SerializeLiquidityOrders(liquidityOrders)
	if err != nil {
		return common.Hash{}, err
	}

	addresses, values := order.contractForm()
	txHash, err := c.caller.FillOrder(
		ctx,
		addresses,
		values,
		order.RequiredComponents,
		order.RequiredComponentAmounts,
		fillQuantity,
		order.Signature,
		orderData,
	)
	if err != nil {
		return common.Hash{}, err
	}

	c.logger.Info("submitted issuance order fill",
		slog.String("order_hash", order.Hash().Hex()),
		slog.String("fill_quantity", fillQuantity.String()),
		slog.String("tx_hash", txHash.Hex()),
	)
	return txHash, nil
}

// CancelIssuanceOrder submits a maker-side cancellation of part of an
// order. Only the maker's key produces an effective cancellation; anyone
// else's transaction reverts on-chain.
func (c *Client) CancelIssuanceOrder(ctx context.Context, order *IssuanceOrder, cancelQuantity *big.Int) (common.Hash, error) {
	if err := assertPositive("cancelQuantity", cancelQuantity); err != nil {
		return common.Hash{}, err
	}

	addresses, values := order.contractForm()
	txHash, err := c.caller.CancelOrder(
		ctx,
		addresses,
		values,
		order.RequiredComponents,
		order.RequiredComponentAmounts,
		cancelQuantity,
	)
	if err != nil {
		return common.Hash{}, err
	}

	c.logger.Info("submitted issuance order cancel",
		slog.String("order_hash", order.Hash().Hex()),
		slog.String("cancel_quantity", cancelQuantity.String()),
		slog.String("tx_hash", txHash.Hex()),
	)
	return txHash, nil
}

// GetFillableQuantity returns the order quantity still open for filling.
func (c *Client) GetFillableQuantity(ctx context.Context, order *IssuanceOrder) (*big.Int, error) {
	orderHash := order.Hash()

	filled, err := c.caller.OrderFills(ctx, orderHash)
	if err != nil {
		return nil, &QueryFailedError{Op: "orderFills", Err: err}
	}
	cancelled, err := c.caller.OrderCancels(ctx, orderHash)
	if err != nil {
		return nil, &QueryFailedError{Op: "orderCancels", Err: err}
	}

	return FillableQuantity(order.Quantity, filled, cancelled)
}

/* ============ Accounting ============ */

// Issue mints quantity of the set token against components the signer has
// deposited or holds.
func (c *Client) Issue(ctx context.Context, setToken common.Address, quantity *big.Int) (common.Hash, error) {
	if err := assertPositive("quantity", quantity); err != nil {
		return common.Hash{}, err
	}
	if err := c.assert.assertMultipleOfNaturalUnit(ctx, setToken, quantity); err != nil {
		return common.Hash{}, err
	}
	return c.caller.Issue(ctx, setToken, quantity)
}

// Redeem burns quantity of the set token, crediting components to the vault.
func (c *Client) Redeem(ctx context.Context, setToken common.Address, quantity *big.Int) (common.Hash, error) {
	if err := assertPositive("quantity", quantity); err != nil {
		return common.Hash{}, err
	}
	if err := c.assert.assertMultipleOfNaturalUnit(ctx, setToken, quantity); err != nil {
		return common.Hash{}, err
	}
	if err := c.assert.assertSufficientBalance(ctx, setToken, c.caller.SignerAddress(), quantity); err != nil {
		return common.Hash{}, err
	}
	return c.caller.Redeem(ctx, setToken, quantity)
}

// Deposit moves tokens from the signer's wallet into the vault.
func (c *Client) Deposit(ctx context.Context, token common.Address, quantity *big.Int) (common.Hash, error) {
	if err := assertPositive("quantity", quantity); err != nil {
		return common.Hash{}, err
	}
	owner := c.caller.SignerAddress()
	if err := c.assert.assertSufficientBalance(ctx, token, owner, quantity); err != nil {
		return common.Hash{}, err
	}
	if err := c.assert.assertSufficientAllowance(ctx, token, owner, c.caller.TransferProxyAddress(), quantity); err != nil {
		return common.Hash{}, err
	}
	return c.caller.Deposit(ctx, token, quantity)
}

// Withdraw moves tokens from the vault back to the signer's wallet.
func (c *Client) Withdraw(ctx context.Context, token common.Address, quantity *big.Int) (common.Hash, error) {
	if err := assertPositive("quantity", quantity); err != nil {
		return common.Hash{}, err
	}
	return c.caller.Withdraw(ctx, token, quantity)
}

// CreateSet deploys a new set token with the given component schedule
// through factory. Returns the transaction hash; the deployed set address
// comes from the transaction's SetTokenCreated log.
func (c *Client) CreateSet(
	ctx context.Context,
	factory common.Address,
	components []common.Address,
	units []*big.Int,
	naturalUnit *big.Int,
	name string,
	symbol string,
) (common.Hash, error) {
	if err := c.assert.ValidateSetCreation(ctx, factory, components, units, naturalUnit, name, symbol); err != nil {
		return common.Hash{}, err
	}

	valid, err := c.caller.IsValidFactory(ctx, factory)
	if err != nil {
		return common.Hash{}, &QueryFailedError{Op: "validFactories", Err: err}
	}
	if !valid {
		return common.Hash{}, fmt.Errorf("factory %s is not enabled on Core", factory.Hex())
	}

	txHash, err := c.caller.CreateSet(ctx, factory, components, units, naturalUnit, name, symbol)
	if err != nil {
		return common.Hash{}, err
	}

	c.logger.Info("submitted set creation",
		slog.String("factory", factory.Hex()),
		slog.String("name", name),
		slog.String("symbol", symbol),
		slog.String("tx_hash", txHash.Hex()),
	)
	return txHash, nil
}

// RedeemAndWithdraw burns set tokens and sends the underlying components to
// the signer's wallet in one transaction. Components listed in
// tokensToExclude stay attributed to the signer in the vault.
func (c *Client) RedeemAndWithdraw(
	ctx context.Context,
	setToken common.Address,
	quantity *big.Int,
	tokensToExclude []common.Address,
) (common.Hash, error) {
	if err := assertPositive("quantity", quantity); err != nil {
		return common.Hash{}, err
	}
	if err := c.assert.assertMultipleOfNaturalUnit(ctx, setToken, quantity); err != nil {
		return common.Hash{}, err
	}
	if err := c.assert.assertSufficientBalance(ctx, setToken, c.caller.SignerAddress(), quantity); err != nil {
		return common.Hash{}, err
	}

	components, err := c.caller.ComponentsOf(ctx, setToken)
	if err != nil {
		return common.Hash{}, &QueryFailedError{Op: "getComponents", Err: err}
	}
	toExclude := componentExclusionBitmask(components, tokensToExclude)

	return c.caller.RedeemAndWithdraw(ctx, setToken, quantity, toExclude)
}

// BatchDeposit moves several tokens from the signer's wallet into the vault.
func (c *Client) BatchDeposit(ctx context.Context, tokens []common.Address, quantities []*big.Int) (common.Hash, error) {
	owner := c.caller.SignerAddress()
	if err := c.assert.ValidateBatchDeposit(ctx, owner, tokens, quantities); err != nil {
		return common.Hash{}, err
	}
	return c.caller.BatchDeposit(ctx, tokens, quantities)
}

// BatchWithdraw moves several tokens from the vault back to the signer's wallet.
func (c *Client) BatchWithdraw(ctx context.Context, tokens []common.Address, quantities []*big.Int) (common.Hash, error) {
	owner := c.caller.SignerAddress()
	if err := c.assert.ValidateBatchWithdraw(ctx, owner, tokens, quantities); err != nil {
		return common.Hash{}, err
	}
	return c.caller.BatchWithdraw(ctx, tokens, quantities)
}

// componentExclusionBitmask maps excluded token addresses to the contract's
// bitmask over the set's component indices.
func componentExclusionBitmask(components, tokensToExclude []common.Address) *big.Int {
	excluded := make(map[common.Address]bool, len(tokensToExclude))
	for _, token := range tokensToExclude {
		excluded[token] = true
	}

	mask := new(big.Int)
	for i, component := range components {
		if excluded[component] {
			mask.SetBit(mask, i, 1)
		}
	}
	return mask
}

/* ============ Reads ============ */

// GetBalance returns owner's balance of the given ERC20 token.
func (c *Client) GetBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	return c.caller.BalanceOf(ctx, token, owner)
}

// GetAllowance returns the allowance owner has granted spender.
func (c *Client) GetAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	return c.caller.AllowanceOf(ctx, token, owner, spender)
}

// GetComponents returns the component addresses of a set token.
func (c *Client) GetComponents(ctx context.Context, setToken common.Address) ([]common.Address, error) {
	return c.caller.ComponentsOf(ctx, setToken)
}

// GetUnits returns the per-natural-unit component amounts of a set token.
func (c *Client) GetUnits(ctx context.Context, setToken common.Address) ([]*big.Int, error) {
	return c.caller.UnitsOf(ctx, setToken)
}

// GetNaturalUnit returns the smallest issuable granularity of a set token.
func (c *Client) GetNaturalUnit(ctx context.Context, setToken common.Address) (*big.Int, error) {
	return c.caller.NaturalUnitOf(ctx, setToken)
}

// GetExchangeAddress returns the wrapper contract registered for an
// exchange id (ExchangeIDZeroEx, ExchangeIDKyber, ExchangeIDTakerWallet).
func (c *Client) GetExchangeAddress(ctx context.Context, exchangeID uint8) (common.Address, error) {
	return c.caller.ExchangeAddress(ctx, exchangeID)
}

// IsValidSet reports whether Core tracks the address as a deployed set.
func (c *Client) IsValidSet(ctx context.Context, setToken common.Address) (bool, error) {
	return c.caller.IsValidSet(ctx, setToken)
}

// IsValidFactory reports whether Core tracks the address as an enabled
// set token factory.
func (c *Client) IsValidFactory(ctx context.Context, factory common.Address) (bool, error) {
	return c.caller.IsValidFactory(ctx, factory)
}

// GetVaultBalance returns the amount of the token the vault attributes to owner.
func (c *Client) GetVaultBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	return c.caller.VaultBalanceOf(ctx, token, owner)
}

// TransferProxyAddress returns the configured transfer proxy address.
func (c *Client) TransferProxyAddress() common.Address {
	return c.caller.TransferProxyAddress()
}

// VaultAddress returns the configured vault address.
func (c *Client) VaultAddress() common.Address {
	return c.caller.VaultAddress()
}

// SignerAddress returns the address of the configured signing key, or the
// zero address for a read-only client.
func (c *Client) SignerAddress() common.Address {
	return c.caller.SignerAddress()
}
