// Command layout-mcp is an MCP (Model Context Protocol) server that exposes
// the page layout engine to AI assistants over stdio.
//
// # Installation
//
//	go install github.com/lvillar/pagelayout/cmd/layout-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "pagelayout": {
//	      "command": "layout-mcp",
//	      "args": ["-paper", "Letter"]
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - paginate: Split table rows into pages with subtotals and totals
//   - render_layout: Render a layout and its data to PDF
//   - move_item: Drag an item with snapping and table band avoidance
//   - resize_item: Resize an item by one of its handles
//   - resize_column: Move the boundary between two table columns
//   - move_boundary: Move the boundary between two regions
//   - check_layout: Report layout invariant violations
//
// # Available Resources
//
//   - layout://templates/default : Invoice layout
//   - layout://templates/single-table : Full-page table layout
//   - layout://kinds : Item kinds
package main

import (
	"flag"
	"fmt"
	"os"

	pagelayout "github.com/lvillar/pagelayout"
	"github.com/lvillar/pagelayout/mcp"
)

func main() {
	paper := flag.String("paper", pagelayout.PaperA4, "default paper size (A3, A4, A5, Letter, Legal)")
	locale := flag.String("locale", pagelayout.DefaultLocale, "locale for amount formatting")
	flag.Parse()

	server := mcp.NewServer()

	mcp.RegisterDefaultTools(server,
		pagelayout.WithPaperSize(*paper),
		pagelayout.WithLocale(*locale),
	)
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "layout-mcp: %v\n", err)
		os.Exit(1)
	}
}
