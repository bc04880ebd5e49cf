package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const defaultGasLimit = uint64(500000)

var ErrNoSigner = errors.New("caller is read-only: no private key configured")

// Caller handles all interaction with the deployed protocol contracts. Reads
// go through eth_call against the Core, SetToken and ERC20 ABIs; writes are
// signed locally and broadcast. A Caller constructed without a private key
// can only read.
type Caller struct {
	client            *ethclient.Client
	key               *ecdsa.PrivateKey
	coreAddr          common.Address
	transferProxyAddr common.Address
	vaultAddr         common.Address

	erc20ABI    abi.ABI
	setTokenABI abi.ABI
	coreABI     abi.ABI
	vaultABI    abi.ABI

	// Set token components and natural units are immutable on-chain, but a
	// TTL keeps the cache bounded for long-lived processes tracking many
	// sets. Keys follow the "{Kind}_{address}" scheme.
	setCacheTTL time.Duration
	cacheMutex  sync.RWMutex
	setCache    map[string]setCacheEntry
}

type setCacheEntry struct {
	value     interface{}
	timestamp time.Time
}

// NewCaller connects to the given RPC endpoint. privateKeyHex may be empty
// for a read-only caller.
func NewCaller(
	rpcURL string,
	privateKeyHex string,
	coreAddr string,
	transferProxyAddr string,
	vaultAddr string,
	setCacheTTL time.Duration,
) (*Caller, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	var key *ecdsa.PrivateKey
	if privateKeyHex != "" {
		key, err = crypto.HexToECDSA(privateKeyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
	}

	return &Caller{
		client:            client,
		key:               key,
		coreAddr:          common.HexToAddress(coreAddr),
		transferProxyAddr: common.HexToAddress(transferProxyAddr),
		vaultAddr:         common.HexToAddress(vaultAddr),
		erc20ABI:          GetERC20ABI(),
		setTokenABI:       GetSetTokenABI(),
		coreABI:           GetCoreABI(),
		vaultABI:          GetVaultABI(),
		setCacheTTL:       setCacheTTL,
		setCache:          make(map[string]setCacheEntry),
	}, nil
}

// SignerAddress returns the address of the configured signing key, or the
// zero address for a read-only caller.
func (c *Caller) SignerAddress() common.Address {
	if c.key == nil {
		return common.Address{}
	}
	publicKey, _ := c.key.Public().(*ecdsa.PublicKey)
	return crypto.PubkeyToAddress(*publicKey)
}

// SignerKey returns the configured signing key, nil for a read-only caller.
func (c *Caller) SignerKey() *ecdsa.PrivateKey {
	return c.key
}

// CoreAddress returns the configured Core contract address.
func (c *Caller) CoreAddress() common.Address {
	return c.coreAddr
}

// TransferProxyAddress returns the configured TransferProxy address.
func (c *Caller) TransferProxyAddress() common.Address {
	return c.transferProxyAddr
}

// VaultAddress returns the configured Vault address.
func (c *Caller) VaultAddress() common.Address {
	return c.vaultAddr
}

/* ============ ERC20 reads ============ */

// BalanceOf returns the ERC20 balance of owner at the given token.
func (c *Caller) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	if err := c.read(ctx, c.erc20ABI, token, "balanceOf", &balance, owner); err != nil {
		return nil, err
	}
	return balance, nil
}

// AllowanceOf returns the ERC20 allowance owner has granted spender.
func (c *Caller) AllowanceOf(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var allowance *big.Int
	if err := c.read(ctx, c.erc20ABI, token, "allowance", &allowance, owner, spender); err != nil {
		return nil, err
	}
	return allowance, nil
}

/* ============ SetToken reads ============ */

// ComponentsOf returns the component token addresses of a set token.
func (c *Caller) ComponentsOf(ctx context.Context, setToken common.Address) ([]common.Address, error) {
	cacheKey := "Components_" + setToken.Hex()
	if cached, ok := c.cachedSetValue(cacheKey); ok {
		return cached.([]common.Address), nil
	}

	var components []common.Address
	if err := c.read(ctx, c.setTokenABI, setToken, "getComponents", &components); err != nil {
		return nil, err
	}

	c.storeSetValue(cacheKey, components)
	return components, nil
}

// UnitsOf returns the per-natural-unit component amounts of a set token.
func (c *Caller) UnitsOf(ctx context.Context, setToken common.Address) ([]*big.Int, error) {
	cacheKey := "Units_" + setToken.Hex()
	if cached, ok := c.cachedSetValue(cacheKey); ok {
		return cached.([]*big.Int), nil
	}

	var units []*big.Int
	if err := c.read(ctx, c.setTokenABI, setToken, "getUnits", &units); err != nil {
		return nil, err
	}

	c.storeSetValue(cacheKey, units)
	return units, nil
}

// NaturalUnitOf returns the smallest issuable granularity of a set token.
func (c *Caller) NaturalUnitOf(ctx context.Context, setToken common.Address) (*big.Int, error) {
	cacheKey := "NaturalUnit_" + setToken.Hex()
	if cached, ok := c.cachedSetValue(cacheKey); ok {
		return cached.(*big.Int), nil
	}

	var naturalUnit *big.Int
	if err := c.read(ctx, c.setTokenABI, setToken, "naturalUnit", &naturalUnit); err != nil {
		return nil, err
	}

	c.storeSetValue(cacheKey, naturalUnit)
	return naturalUnit, nil
}

/* ============ Core reads ============ */

// OrderFills returns the cumulative filled quantity recorded for an order hash.
func (c *Caller) OrderFills(ctx context.Context, orderHash common.Hash) (*big.Int, error) {
	var filled *big.Int
	if err := c.read(ctx, c.coreABI, c.coreAddr, "orderFills", &filled, orderHash); err != nil {
		return nil, err
	}
	return filled, nil
}

// OrderCancels returns the cumulative cancelled quantity recorded for an order hash.
func (c *Caller) OrderCancels(ctx context.Context, orderHash common.Hash) (*big.Int, error) {
	var cancelled *big.Int
	if err := c.read(ctx, c.coreABI, c.coreAddr, "orderCancels", &cancelled, orderHash); err != nil {
		return nil, err
	}
	return cancelled, nil
}

// ExchangeAddress returns the wrapper contract registered for an exchange id.
func (c *Caller) ExchangeAddress(ctx context.Context, exchangeID uint8) (common.Address, error) {
	var exchange common.Address
	if err := c.read(ctx, c.coreABI, c.coreAddr, "exchanges", &exchange, exchangeID); err != nil {
		return common.Address{}, err
	}
	return exchange, nil
}

// IsValidSet reports whether Core tracks the address as a deployed set token.
func (c *Caller) IsValidSet(ctx context.Context, setToken common.Address) (bool, error) {
	var valid bool
	if err := c.read(ctx, c.coreABI, c.coreAddr, "validSets", &valid, setToken); err != nil {
		return false, err
	}
	return valid, nil
}

// IsValidFactory reports whether Core tracks the address as an enabled set
// token factory.
func (c *Caller) IsValidFactory(ctx context.Context, factory common.Address) (bool, error) {
	var valid bool
	if err := c.read(ctx, c.coreABI, c.coreAddr, "validFactories", &valid, factory); err != nil {
		return false, err
	}
	return valid, nil
}

/* ============ Vault reads ============ */

// VaultBalanceOf returns the amount of the token the vault attributes to owner.
func (c *Caller) VaultBalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	if err := c.read(ctx, c.vaultABI, c.vaultAddr, "getOwnerBalance", &balance, token, owner); err != nil {
		return nil, err
	}
	return balance, nil
}

/* ============ Core writes ============ */

// FillOrder submits a fill of an issuance order. The order travels in the
// contract's (addresses, values, components, amounts) shape together with the
// maker signature and the serialized liquidity orders.
func (c *Caller) FillOrder(
	ctx context.Context,
	addresses [5]common.Address,
	values [6]*big.Int,
	requiredComponents []common.Address,
	requiredComponentAmounts []*big.Int,
	fillQuantity *big.Int,
	sig ECSignature,
	orderData []byte,
) (common.Hash, error) {
	callData, err := c.coreABI.Pack("fillOrder",
		addresses,
		values,
		requiredComponents,
		requiredComponentAmounts,
		fillQuantity,
		sig.V,
		[][32]byte{sig.R, sig.S},
		orderData,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack fillOrder: %w", err)
	}

	return c.sendTransaction(ctx, c.coreAddr, callData)
}

// CancelOrder submits a maker-side cancellation for part of an order.
func (c *Caller) CancelOrder(
	ctx context.Context,
	addresses [5]common.Address,
	values [6]*big.Int,
	requiredComponents []common.Address,
	requiredComponentAmounts []*big.Int,
	cancelQuantity *big.Int,
) (common.Hash, error) {
	callData, err := c.coreABI.Pack("cancelOrder",
		addresses,
		values,
		requiredComponents,
		requiredComponentAmounts,
		cancelQuantity,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack cancelOrder: %w", err)
	}

	return c.sendTransaction(ctx, c.coreAddr, callData)
}

// Issue mints set tokens against components already in the vault or wallet.
func (c *Caller) Issue(ctx context.Context, setToken common.Address, quantity *big.Int) (common.Hash, error) {
	return c.packAndSend(ctx, "issue", setToken, quantity)
}

// Redeem burns set tokens and credits the underlying components in the vault.
func (c *Caller) Redeem(ctx context.Context, setToken common.Address, quantity *big.Int) (common.Hash, error) {
	return c.packAndSend(ctx, "redeem", setToken, quantity)
}

// Deposit moves tokens from the signer's wallet into the vault.
func (c *Caller) Deposit(ctx context.Context, token common.Address, quantity *big.Int) (common.Hash, error) {
	return c.packAndSend(ctx, "deposit", token, quantity)
}

// Withdraw moves tokens from the vault back to the signer's wallet.
func (c *Caller) Withdraw(ctx context.Context, token common.Address, quantity *big.Int) (common.Hash, error) {
	return c.packAndSend(ctx, "withdraw", token, quantity)
}

// CreateSet deploys a new set token through an enabled factory.
func (c *Caller) CreateSet(
	ctx context.Context,
	factory common.Address,
	components []common.Address,
	units []*big.Int,
	naturalUnit *big.Int,
	name string,
	symbol string,
) (common.Hash, error) {
	callData, err := c.coreABI.Pack("create", factory, components, units, naturalUnit, name, symbol)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack create: %w", err)
	}
	return c.sendTransaction(ctx, c.coreAddr, callData)
}

// RedeemAndWithdraw burns set tokens and sends the underlying components to
// the signer's wallet in one transaction. toExclude is a bitmask over the
// set's component indices; excluded components stay in the vault.
func (c *Caller) RedeemAndWithdraw(ctx context.Context, setToken common.Address, quantity, toExclude *big.Int) (common.Hash, error) {
	callData, err := c.coreABI.Pack("redeemAndWithdraw", setToken, quantity, toExclude)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack redeemAndWithdraw: %w", err)
	}
	return c.sendTransaction(ctx, c.coreAddr, callData)
}

// BatchDeposit moves several tokens from the signer's wallet into the vault.
func (c *Caller) BatchDeposit(ctx context.Context, tokens []common.Address, quantities []*big.Int) (common.Hash, error) {
	return c.packAndSendBatch(ctx, "batchDeposit", tokens, quantities)
}

// BatchWithdraw moves several tokens from the vault back to the signer's wallet.
func (c *Caller) BatchWithdraw(ctx context.Context, tokens []common.Address, quantities []*big.Int) (common.Hash, error) {
	return c.packAndSendBatch(ctx, "batchWithdraw", tokens, quantities)
}

// Close closes the underlying RPC client connection.
func (c *Caller) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

/* ============ Internal helpers ============ */

func (c *Caller) packAndSend(ctx context.Context, method string, addr common.Address, quantity *big.Int) (common.Hash, error) {
	callData, err := c.coreABI.Pack(method, addr, quantity)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return c.sendTransaction(ctx, c.coreAddr, callData)
}

func (c *Caller) packAndSendBatch(ctx context.Context, method string, tokens []common.Address, quantities []*big.Int) (common.Hash, error) {
	callData, err := c.coreABI.Pack(method, tokens, quantities)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return c.sendTransaction(ctx, c.coreAddr, callData)
}

// read performs an eth_call and unpacks the single return value into out.
func (c *Caller) read(ctx context.Context, contractABI abi.ABI, to common.Address, method string, out interface{}, args ...interface{}) error {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", method, err)
	}

	if err := contractABI.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}

	return nil
}

func (c *Caller) sendTransaction(ctx context.Context, to common.Address, callData []byte) (common.Hash, error) {
	if c.key == nil {
		return common.Hash{}, ErrNoSigner
	}

	chainID, err := c.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get chain ID: %w", err)
	}

	nonce, err := c.client.PendingNonceAt(ctx, c.SignerAddress())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, big.NewInt(0), defaultGasLimit, gasPrice, callData)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash(), nil
}

func (c *Caller) cachedSetValue(key string) (interface{}, bool) {
	if c.setCacheTTL <= 0 {
		return nil, false
	}

	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()

	entry, ok := c.setCache[key]
	if !ok || time.Since(entry.timestamp) >= c.setCacheTTL {
		return nil, false
	}
	return entry.value, true
}

func (c *Caller) storeSetValue(key string, value interface{}) {
	if c.setCacheTTL <= 0 {
		return
	}

	c.cacheMutex.Lock()
	c.setCache[key] = setCacheEntry{value: value, timestamp: time.Now()}
	c.cacheMutex.Unlock()
}
