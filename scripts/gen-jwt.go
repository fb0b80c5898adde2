// ABOUTME: Generates signed JWT bearer tokens for local development
// ABOUTME: Mints HS256 tokens against AUTH_JWT_SECRET for testing the gateway

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <secret> <token-type> [user-id]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Token types: valid, expired\n")
		os.Exit(1)
	}

	secret := os.Args[1]
	tokenType := os.Args[2]

	userID := "dev-user-123"
	if len(os.Args) > 3 {
		userID = os.Args[3]
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"iss":   "skillr-dev",
		"iat":   now.Unix(),
	}

	switch tokenType {
	case "valid":
		claims["exp"] = now.Add(time.Hour).Unix()
	case "expired":
		claims["exp"] = now.Add(-time.Hour).Unix()
		claims["iat"] = now.Add(-2 * time.Hour).Unix()
	default:
		fmt.Fprintf(os.Stderr, "Unknown token type: %s\n", tokenType)
		os.Exit(1)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(token)
}
