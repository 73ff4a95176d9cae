// Commande admintoken : émet un JWT admin pour GET /api/debug-product
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"gravity_back_end/internal/config"
	"gravity_back_end/internal/utils"
)

func main() {
	userID := flag.String("user", "ops", "identifiant porté par le jeton")
	email := flag.String("email", "ops@gravity.pe", "email porté par le jeton")
	ttl := flag.Duration("ttl", time.Hour, "durée de validité")
	flag.Parse()

	cfg := config.Load()
	token, err := utils.GenerateJWT(cfg.JWTSecret, *userID, *email, "admin", *ttl)
	if err != nil {
		log.Fatalf("❌ Génération du jeton impossible: %v", err)
	}
	fmt.Println(token)
}
