// Command gettoken obtains a Zoho refresh token through the authorization-code flow.
//
//	gettoken url                      print the consent URL
//	gettoken exchange -code CODE      exchange a code and print the refresh token
//	gettoken exchange -code CODE -store
//	                                  also write the refresh token into the token store
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/samandr77/microservices/invoice/internal/clients/zoho"
	"github.com/samandr77/microservices/invoice/internal/repository"
	"github.com/samandr77/microservices/invoice/internal/service"
	"github.com/samandr77/microservices/invoice/pkg/config"
	"github.com/samandr77/microservices/invoice/pkg/logger"
	"github.com/samandr77/microservices/invoice/pkg/postgres"
)

const timeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	_, err := logger.New("warn", "text")
	panicOnErr("create logger", err)

	cfg, err := config.NewZoho(".env")
	panicOnErr("load config", err)

	client := zoho.NewClient(cfg)

	switch os.Args[1] {
	case "url":
		fmt.Println("Open this URL in a browser and approve access:")
		fmt.Println(client.AuthorizationURL())
		fmt.Println()
		fmt.Printf("Copy the code parameter from the %s redirect and run: gettoken exchange -code CODE\n", cfg.RedirectURI)

	case "exchange":
		fs := flag.NewFlagSet("exchange", flag.ExitOnError)
		code := fs.String("code", "", "authorization code from the redirect")
		store := fs.Bool("store", false, "write the refresh token into the token store (needs POSTGRES_DSN)")

		err := fs.Parse(os.Args[2:])
		panicOnErr("parse flags", err)

		if *code == "" {
			*code = prompt("Authorization code: ")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		refreshToken, err := client.ExchangeAuthorizationCode(ctx, *code)
		panicOnErr("exchange authorization code", err)

		fmt.Println("Refresh token:", refreshToken)

		if *store {
			storeRefreshToken(ctx, client, refreshToken)
			fmt.Println("Refresh token saved to the token store.")
		} else {
			fmt.Println("Set ZOHO_REFRESH_TOKEN to this value or rerun with -store.")
		}

	default:
		usage()
	}
}

func storeRefreshToken(ctx context.Context, client *zoho.Client, refreshToken string) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Panic("POSTGRES_DSN is required with -store")
	}

	err := postgres.UpMigrations(ctx, dsn)
	panicOnErr("up migrations", err)

	pool, err := postgres.Connect(ctx, dsn, 1)
	panicOnErr("connect to postgres", err)
	defer pool.Close()

	err = service.NewTokens(repository.New(pool), client).SetRefreshToken(ctx, refreshToken)
	panicOnErr("store refresh token", err)
}

func prompt(label string) string {
	fmt.Print(label)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	panicOnErr("read input", err)

	return strings.TrimSpace(line)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gettoken url | gettoken exchange [-code CODE] [-store]")
	os.Exit(2)
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
