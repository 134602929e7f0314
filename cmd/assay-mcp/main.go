package main

import (
	"fmt"
	"log"
	"os"

	"github.com/striplab/assay-tools-mcp/internal/config"
	"github.com/striplab/assay-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("assay-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("assay-mcp - MCP server for lateral-flow strip line quantification")
			fmt.Println()
			fmt.Println("Usage: assay-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  ASSAY_MCP_CONFIG=path        YAML config with detector parameters")
			fmt.Println("  ASSAY_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(os.Getenv("ASSAY_MCP_CONFIG"))
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if os.Getenv("ASSAY_MCP_LOG_LEVEL") == "debug" {
		log.Printf("Assay MCP Server v%s (built %s, commit %s), strategy %s",
			Version, BuildTime, GitCommit, cfg.Strategy)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server setup error: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
