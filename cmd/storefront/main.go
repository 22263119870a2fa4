package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/cart"
	"github.com/teukusulthan/ninetyn-client/internal/checkout"
	"github.com/teukusulthan/ninetyn-client/internal/config"
	"github.com/teukusulthan/ninetyn-client/internal/guard"
	"github.com/teukusulthan/ninetyn-client/internal/server"
	"github.com/teukusulthan/ninetyn-client/internal/session"
	"github.com/teukusulthan/ninetyn-client/internal/store"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	local, err := store.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatal("open local store:", err)
	}

	// The backend client reads the persisted credential on every request,
	// the same way the web client's interceptor read localStorage.
	backend := api.NewClient(cfg.Backend.BaseURL, func() string {
		token, _, _ := local.Get(store.KeyToken)
		return token
	})

	sess := session.New(backend, local)
	sess.Start()

	crt := cart.New(local)
	grd := guard.New(sess, time.Duration(cfg.Guard.ProfileWaitMS)*time.Millisecond)
	flow := checkout.New(backend, sess, crt)

	srv := server.NewServer(backend, sess, crt, flow, grd)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Println("Starting storefront gateway on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
