package main

import (
	"log"
	"net/http"
	"os"

	"github.com/EnesMalik02/checkout-api/cmd/checkout-api/app"
	"github.com/EnesMalik02/checkout-api/configs"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	env := os.Getenv("APP_ENV") // dev | staging | prod
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	a, cleanup, err := app.InitWithConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      a.Router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	log.Printf("checkout-api (%s) listening on %s", env, cfg.App.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
