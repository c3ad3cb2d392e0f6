// Command token issues access tokens for local testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/buildlore/heritage-backend/internal/config"
	"github.com/buildlore/heritage-backend/pkg/jwt"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	userID := flag.String("user", "", "user id (required)")
	nickname := flag.String("nickname", "", "nickname")
	admin := flag.Bool("admin", false, "issue an admin token")
	level := flag.Int("level", 1, "member level (ignored with -admin)")
	refresh := flag.Bool("refresh", false, "also print a refresh token")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	config.LoadDotEnv()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *admin {
		*level = jwt.AdminLevel
	}

	manager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)
	token, err := manager.GenerateToken(*userID, *nickname, *level)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)

	if *refresh {
		refreshToken, err := manager.GenerateRefreshToken(*userID)
		if err != nil {
			log.Fatalf("Failed to sign refresh token: %v", err)
		}
		fmt.Println(refreshToken)
	}
}
