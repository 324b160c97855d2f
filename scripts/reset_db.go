package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"farm-backend/internal/config"
	"farm-backend/internal/db"
	"farm-backend/pkg/logger"
)

// Trade and bookkeeping tables cleared by a reset. Users and settings stay.
var resetTables = []string{
	"purchases",
	"sales",
	"godown_sales",
	"expenses",
	"mortality_records",
	"farmers",
	"retailers",
	"vehicles",
}

var referenceSequences = []string{
	"purchase_reference_seq",
	"sale_reference_seq",
	"godown_sale_reference_seq",
}

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Farm Data for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This will DELETE every purchase, sale, godown sale, expense,")
	fmt.Println("mortality record, farmer, retailer and vehicle, and restart")
	fmt.Println("the PO-/SL-/GS- reference numbers at 1. Users and settings are kept.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Must(logger.New("info"))
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("unable to connect to database", zap.Error(err))
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal("failed to begin transaction", zap.Error(err))
	}
	defer tx.Rollback(ctx)

	for _, table := range resetTables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			log.Fatal("failed to truncate", zap.String("table", table), zap.Error(err))
		}
		fmt.Printf("  cleared %s\n", table)
	}

	for _, seq := range referenceSequences {
		if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", seq)); err != nil {
			log.Warn("failed to reset sequence", zap.String("sequence", seq), zap.Error(err))
		}
	}
	fmt.Println("  reset reference sequences")

	if err := tx.Commit(ctx); err != nil {
		log.Fatal("failed to commit reset", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("Farm data reset successful.")
}
