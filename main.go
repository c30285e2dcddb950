package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"folio/app/config"
	"folio/app/logger"
	"folio/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain parses os.Args and dispatches to a command.
func RealMain() {
	args := os.Args[1:]

	configPath := ""
	if len(args) > 0 && args[0] == "--config" {
		if len(args) < 2 {
			fmt.Println("Error: --config requires a file path")
			exit(1)
			return
		}
		configPath = args[1]
		args = args[2:]
	}

	if len(args) < 1 {
		printHelp()
		exit(1)
		return
	}

	switch strings.ToLower(args[0]) {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("folio version %s\n", CliVersion)
	case "serve", "posts", "media":
		if code := run(configPath, args); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printHelp()
		exit(1)
	}
}

func run(configPath string, args []string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return service.HandleCommand(ctx, cfg, args)
}

func printHelp() {
	helpText := `Usage: folio [--config <file>] <command> [options]
Commands:
  help                            Display this help message.
  version                         Show version information.
  serve                           Run the blog API server.
  posts list [query]              List posts, newest first.
  posts show <slug>               Print a post file.
  posts delete <slug>             Delete a post.
  media list                      List uploaded images.
  media delete <name>             Delete an uploaded image.
  media backup [file]             Back up the media index.
  media restore <file>            Restore the media index from a backup.

Settings come from the optional config file, a .env file and FOLIO_* environment
variables (for example FOLIO_SERVER_ADDR, FOLIO_CONTENT_DIR, SITE_URL).
`
	fmt.Println(helpText)
}
