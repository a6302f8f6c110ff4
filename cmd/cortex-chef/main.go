// Command cortex-chef is a recipe assistant over Snowflake Cortex or a local
// SQLite stand-in.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/cli"
	"github.com/custodia-labs/cortex-chef/internal/app"
)

// version is set by the linker: -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetFactory(app.Build)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
