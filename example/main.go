// Example usage of the Set Protocol Go SDK
package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	setprotocol "github.com/SetProtocol/setprotocol-go"
)

func main() {
	// Load RPC_URL and PRIVATE_KEY from .env if present
	_ = godotenv.Load()

	config := setprotocol.Config{
		RPCURL:     os.Getenv("RPC_URL"),
		PrivateKey: os.Getenv("PRIVATE_KEY"),
		NetworkID:  setprotocol.NetworkIDMainnet,
		// Core, TransferProxy and Vault addresses default to the
		// mainnet deployment when left empty.
		SetDetailsCacheTTL: 10 * time.Minute,
	}

	client, err := setprotocol.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	setAddress := common.HexToAddress("0x0000000000000000000000000000000000000000") // Replace with a deployed set
	wethAddress := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	// Example: inspect the set's composition
	fmt.Println("Fetching set composition...")
	components, err := client.GetComponents(ctx, setAddress)
	if err != nil {
		log.Printf("Failed to get components: %v", err)
	} else {
		fmt.Printf("Components: %v\n", components)
	}

	naturalUnit, err := client.GetNaturalUnit(ctx, setAddress)
	if err != nil {
		log.Printf("Failed to get natural unit: %v", err)
	} else {
		fmt.Printf("Natural unit: %v\n", naturalUnit)
	}

	// Example: create and sign an issuance order
	fmt.Println("\nCreating signed issuance order...")
	order := setprotocol.IssuanceOrder{
		SetAddress:               setAddress,
		MakerAddress:             client.SignerAddress(),
		MakerToken:               wethAddress,
		Quantity:                 big.NewInt(1000000000000000000), // 1 set (18 decimals)
		MakerTokenAmount:         big.NewInt(500000000000000000),  // 0.5 WETH
		Expiration:               setprotocol.GenerateExpirationTimestamp(24 * time.Hour),
		RequiredComponents:       components,
		RequiredComponentAmounts: []*big.Int{}, // Replace with per-component amounts
	}

	signedOrder, err := client.CreateSignedIssuanceOrder(ctx, order)
	if err != nil {
		log.Printf("Failed to create signed order: %v", err)
		return
	}
	fmt.Printf("Order hash: %s\n", signedOrder.Hash().Hex())

	// Example: check whether the order can be filled right now
	fmt.Println("\nValidating order fillability...")
	fillQuantity := big.NewInt(1000000000000000000)
	if err := client.ValidateOrderFillable(ctx, signedOrder, fillQuantity); err != nil {
		log.Printf("Order is not fillable: %v", err)
	} else {
		fmt.Println("Order is fillable")
	}

	// Example: validate liquidity and fill the order as the taker
	fmt.Println("\nFilling order with taker wallet liquidity...")
	liquidityOrders := []setprotocol.LiquidityOrder{
		// Replace with legs covering every required component pro rata
		setprotocol.TakerWalletOrder{
			TakerTokenAddress: wethAddress,
			TakerTokenAmount:  big.NewInt(500000000000000000),
		},
	}

	txHash, err := client.FillIssuanceOrder(ctx, signedOrder, fillQuantity, liquidityOrders)
	if err != nil {
		log.Printf("Failed to fill order: %v", err)
	} else {
		fmt.Printf("Fill transaction: %s\n", txHash.Hex())
	}

	// Example: cancel the remainder of the order
	fmt.Println("\nCancelling remaining quantity...")
	remaining, err := client.GetFillableQuantity(ctx, &signedOrder.IssuanceOrder)
	if err != nil {
		log.Printf("Failed to get fillable quantity: %v", err)
	} else if remaining.Sign() > 0 {
		cancelTx, err := client.CancelIssuanceOrder(ctx, &signedOrder.IssuanceOrder, remaining)
		if err != nil {
			log.Printf("Failed to cancel order: %v", err)
		} else {
			fmt.Printf("Cancel transaction: %s\n", cancelTx.Hex())
		}
	}
}
