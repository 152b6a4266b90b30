package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"

	"github.com/holsteinlabs/authgate/auth"
	"github.com/holsteinlabs/authgate/idp"
	"github.com/holsteinlabs/authgate/internal/config"
	"github.com/holsteinlabs/authgate/ratelimit"
	"github.com/holsteinlabs/authgate/server"
	"github.com/holsteinlabs/authgate/server/authflowrepo"
	"github.com/holsteinlabs/authgate/sessions"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, err := idp.New(ctx, idp.Options{
		Issuer:       c.GetIssuer(),
		ClientID:     c.GetClientID(),
		ClientSecret: c.GetClientSecret(),
		RedirectURL:  c.GetBaseURL() + "/callback",
		Timeout:      c.GetProviderTimeout(),
	})
	if err != nil {
		return fmt.Errorf("idp.New: %w", err)
	}

	sessionRepo, err := newSessionRepo(c)
	if err != nil {
		return fmt.Errorf("newSessionRepo: %w", err)
	}

	limiter := ratelimit.New(ratelimit.NewInMemoryStore(), ratelimit.Options{
		MaxAttempts:     c.GetMaxLoginAttempts(),
		Window:          c.GetAttemptWindow(),
		LockoutDuration: c.GetLockoutDuration(),
	})
	go limiter.StartSweeper(ctx)

	authService := auth.NewService(provider, limiter, c.GetSessionTimeout())
	handler := server.New(c, authService, provider, sessionRepo, authflowrepo.NewInMemoryRepo())

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func newSessionRepo(c config.Config) (sessions.Repo, error) {
	switch c.GetSessionStore() {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return sessions.NewRedisRepo(client), nil
	case "", "memory":
		return sessions.NewInMemoryRepo(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", c.GetSessionStore())
	}
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
