// Command layout-server serves the page layout engine over HTTP.
//
// Configuration comes from the environment: PORT, ENV, READ_TIMEOUT,
// WRITE_TIMEOUT, BODY_LIMIT, LAYOUT_PAPER and LAYOUT_LOCALE.
package main

import (
	"fmt"
	"log"

	"github.com/lvillar/pagelayout/server"
)

func main() {
	cfg := server.LoadConfig()
	app := server.New(cfg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Layout Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
