package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/overlaykit/text-overlay-mcp/internal/config"
	"github.com/overlaykit/text-overlay-mcp/internal/extract"
	"github.com/overlaykit/text-overlay-mcp/internal/ocr"
	"github.com/overlaykit/text-overlay-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("text-overlay-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "extract":
			os.Exit(runExtract(os.Args[2:]))
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logLevel := os.Getenv("TEXT_OVERLAY_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Text Overlay MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("text-overlay-mcp - MCP server for OCR extraction and text overlay rendering")
	fmt.Println()
	fmt.Println("Usage: text-overlay-mcp [options]")
	fmt.Println("       text-overlay-mcp extract <image> [languages]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println("  --config <path>  Load settings from a YAML file")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  extract          Run OCR on a single image and print the result as JSON")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  TEXT_OVERLAY_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("Without a command the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func loadConfig(args []string) (config.Config, error) {
	for i, arg := range args {
		if arg == "--config" {
			if i+1 >= len(args) {
				return config.Config{}, fmt.Errorf("--config requires a file path")
			}
			return config.Load(args[i+1])
		}
	}
	return config.Default(), nil
}

// runExtract is a one-shot CLI mode: OCR a single image and print the
// fused result as JSON on stdout. Useful for debugging engine setup
// without an MCP client.
func runExtract(args []string) int {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	if len(args) < 1 {
		log.Println("usage: text-overlay-mcp extract <image> [languages]")
		return 2
	}
	cfg := config.Default()
	languages := cfg.Languages
	if len(args) > 1 {
		languages = args[1]
	}

	var engine ocr.Engine
	if cfg.Engine == config.EngineLibrary {
		engine = ocr.NewGosseractEngine()
	} else {
		engine = ocr.NewCommandEngine(cfg.TesseractPath)
	}

	result, err := extract.New(engine).ExtractFile(context.Background(), args[0], languages)
	if err != nil {
		log.Printf("extract: %v", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Printf("encode: %v", err)
		return 1
	}
	return 0
}
