package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clubhouse/internal/booking"
	"github.com/smallbiznis/clubhouse/internal/clock"
	"github.com/smallbiznis/clubhouse/internal/config"
	"github.com/smallbiznis/clubhouse/internal/event"
	"github.com/smallbiznis/clubhouse/internal/migration"
	"github.com/smallbiznis/clubhouse/internal/notification"
	"github.com/smallbiznis/clubhouse/internal/observability"
	"github.com/smallbiznis/clubhouse/internal/providers"
	"github.com/smallbiznis/clubhouse/internal/ratelimit"
	"github.com/smallbiznis/clubhouse/internal/redisx"
	"github.com/smallbiznis/clubhouse/internal/server"
	"github.com/smallbiznis/clubhouse/pkg/db"
	"github.com/smallbiznis/clubhouse/pkg/secret"
	"go.uber.org/fx"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-token" {
		os.Exit(hashToken())
	}

	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		redisx.Module,
		clock.Module,

		// Providers
		providers.Module,
		ratelimit.Module,

		// Functional Domains
		event.Module,
		notification.Module,
		booking.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// hashToken reads an admin token from stdin and prints the value to put in
// ADMIN_API_TOKEN instead of the plaintext.
func hashToken() int {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(os.Stderr, "read token:", err)
		return 1
	}
	token := strings.TrimSpace(line)
	if token == "" {
		fmt.Fprintln(os.Stderr, "token is empty")
		return 1
	}
	encoded, err := secret.Hash(token)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash token:", err)
		return 1
	}
	fmt.Println(encoded)
	return 0
}
