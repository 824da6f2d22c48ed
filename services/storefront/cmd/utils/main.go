package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/dinner/services/storefront/cmd/utils/internal/commands"
)

const (
	appName    = "storefront-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	// Positional arguments belong to the commands; settings come from the environment.
	config, err := aqm.LoadConfig("UTILS", nil)
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel := config.GetStringOrDef("log.level", "info")
	logger := aqm.NewLogger(logLevel)

	ctx := context.Background()
	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "normalize":
		if len(args) != 2 {
			fmt.Println("Usage: normalize <summary-file> <menus-file>")
			os.Exit(1)
		}
		if err := commands.Normalize(args[0], args[1], logger, os.Stdout); err != nil {
			log.Fatalf("Normalize failed: %v", err)
		}

	case "parse-time":
		if len(args) == 0 {
			fmt.Println("Usage: parse-time <text>")
			os.Exit(1)
		}
		reference := config.GetStringOrDef("reference.date", "")
		if err := commands.ParseTime(strings.Join(args, " "), reference, os.Stdout); err != nil {
			log.Fatalf("Parse time failed: %v", err)
		}

	case "diff-log":
		if len(args) != 1 {
			fmt.Println("Usage: diff-log <logs-file>")
			os.Exit(1)
		}
		if err := commands.DiffLog(args[0], os.Stdout); err != nil {
			log.Fatalf("Diff failed: %v", err)
		}

	case "clear-hints":
		if err := commands.ClearHints(ctx, config, logger); err != nil {
			log.Fatalf("Clearing hints failed: %v", err)
		}
		logger.Info("Delivery time hints cleared")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Storefront utility commands

Usage:
  %s <command> [arguments]

Commands:
  normalize <summary> <menus>  Convert a saved order summary (JSON or summary text) into cart requests
  parse-time <text>            Extract a delivery time from a Korean utterance
  diff-log <logs>              Explain a saved dump of order modification logs
  clear-hints                  Remove every stored delivery time hint (Mongo hint store)
  version                      Print version information
  help                         Show this help message

Environment Variables:
  UTILS_LOG_LEVEL        Log level: debug, info, warn, error (default: info)
  UTILS_REFERENCE_DATE   Anchor for relative days, YYYY-MM-DD (default: 2025-12-08)
  UTILS_DB_MONGO_URL     MongoDB connection URL (default: mongodb://localhost:27017)
  UTILS_DB_MONGO_NAME    Database holding the hints (default: dinner_storefront)

Examples:
  %s parse-time "내일 오후 7시에 보내주세요"
  %s normalize summary.json menus.json

`, appName, appName, appName, appName)
}
