// Command chirper is the entry point for the Chirper backend.
package main

import (
	"context"
	"fmt"
	"os"

	"chirper/internal/cli"
)

// @title Chirper API
// @version 1.0
// @description Tweets, comments and users with a realtime comment event stream

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
