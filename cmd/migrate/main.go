package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/buildlore/heritage-backend/internal/config"
	"github.com/buildlore/heritage-backend/internal/database"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/migration"
	"github.com/buildlore/heritage-backend/internal/repository"
	"github.com/buildlore/heritage-backend/pkg/logger"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	verify := flag.Bool("verify", false, "report like counters that disagree with the like ledger")
	repair := flag.Bool("repair", false, "recompute drifted like counters from the ledger")
	seed := flag.Bool("seed", false, "insert demo articles into an empty database")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	logger.Init()
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	if err := migration.Run(db); err != nil {
		logger.Fatal("Migration failed: %v", err)
	}
	logger.Info("[migrate] schema up to date")

	if *seed {
		if err := migration.SeedDemo(db); err != nil {
			logger.Fatal("Seed failed: %v", err)
		}
		logger.Info("[seed] done")
	}

	if *verify || *repair {
		drifted := runVerify(db)
		if *repair {
			runRepair(db)
		} else if drifted > 0 {
			os.Exit(1)
		}
	}
}

var targets = []domain.LikeTarget{domain.LikeTargetArticle, domain.LikeTargetComment}

func runVerify(db *gorm.DB) int {
	auditor := repository.NewLedgerAuditor(db)
	total := 0

	fmt.Println()
	fmt.Println("╔══════════╦══════════════╦══════════╦══════════╗")
	fmt.Println("║ Target   ║ Subject ID   ║  Stored  ║  Ledger  ║")
	fmt.Println("╠══════════╬══════════════╬══════════╬══════════╣")
	for _, target := range targets {
		drift, err := auditor.FindDrift(context.Background(), target)
		if err != nil {
			logger.Fatal("[verify] %s: %v", target, err)
		}
		for _, d := range drift {
			fmt.Printf("║ %-8s ║ %12d ║ %8d ║ %8d ║\n", target, d.SubjectID, d.Stored, d.Actual)
		}
		total += len(drift)
	}
	fmt.Println("╚══════════╩══════════════╩══════════╩══════════╝")
	if total > 0 {
		logger.Error("[verify] %d drifted counter(s)", total)
	} else {
		logger.Info("[verify] all counters match the ledger")
	}
	return total
}

func runRepair(db *gorm.DB) {
	auditor := repository.NewLedgerAuditor(db)
	for _, target := range targets {
		fixed, err := auditor.Repair(context.Background(), target)
		if err != nil {
			logger.Fatal("[repair] %s: %v", target, err)
		}
		logger.Info("[repair] %s: %d counter(s) recomputed", target, fixed)
	}
}
