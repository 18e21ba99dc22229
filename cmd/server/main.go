package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "invoice-ledger/internal/adapters/web"
	"invoice-ledger/internal/ai"
	"invoice-ledger/internal/app"
	"invoice-ledger/internal/core"
	"invoice-ledger/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	clientService := core.NewClientService(pool)
	invoiceService := core.NewInvoiceService(pool)
	auditService := core.NewAuditService(pool)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, AI query will fail")
	}
	agent := ai.NewAgent(apiKey)

	svc := app.NewAppService(clientService, invoiceService, auditService, agent)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
