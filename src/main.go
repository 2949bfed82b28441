package main

import (
	"log"
	"net/http"

	"budget-planner-server/src/api"
	"budget-planner-server/src/config"
	"budget-planner-server/src/db"
	sqldb "budget-planner-server/src/db/sql"
	"budget-planner-server/src/session"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("DB migration failed: %v", err)
	}

	sqldb.InitCache()

	// Sessions live in process memory and are lost on restart.
	sessions := session.NewMemoryStore(cfg.SessionTTL, cfg.SessionSweep)
	defer sessions.Close()

	// Router
	router := api.NewRouter(pool, sessions, cfg)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
