package main

import (
	"fmt"
	"log"
	"os"

	"reqlog.local/internal/platform/auth"
	"reqlog.local/internal/platform/config"
)

// Prints an operator token for the admin API, signed with JWT_SECRET.
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: go run ./cmd/tools/mintoken <subject>")
	}

	cfg := config.Load()
	ts, err := auth.NewHS256Service(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		log.Fatal(err)
	}
	token, err := ts.Sign(os.Args[1], auth.RoleOperator)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
