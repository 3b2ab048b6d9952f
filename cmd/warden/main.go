package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odvcencio/warden/pkg/config"
	"github.com/odvcencio/warden/pkg/files"
	"github.com/odvcencio/warden/pkg/logging"
	"github.com/odvcencio/warden/pkg/sandbox"
	"github.com/odvcencio/warden/pkg/tool"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const usageText = `warden - policy-gated file and command access for agents

Usage:
  warden [flags] <command> [args]

Commands:
  exec <command...>              run a shell command under the command policy
  read <path> [max-lines]        read a file
  write <path> <content>         write a file (use -append to append)
  ls <path> [pattern]            list a directory
  search <path> <pattern> [text] search for files by name and content
  info <path>                    inspect a file or directory
  rm <path>                      delete a file or directory
  tools                          print the tool schemas as JSON

Flags:
  -config <path>   config file (default: warden.yaml, ~/.config/warden/config.yaml)
  -append          append instead of overwrite (write command)
  -version         print version information
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("warden", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	configPath := fs.String("config", "", "path to config file")
	appendMode := fs.Bool("append", false, "append instead of overwrite")
	showVersion := fs.Bool("version", false, "print version information")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Printf("warden %s (%s, built %s)\n", version, commit, buildDate)
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warden: %v\n", err)
		return 1
	}

	logger := openLogger(cfg)
	if logger != nil {
		defer logger.Close()
	}

	guard := files.NewGuard(cfg.AccessPolicy())
	sb := sandbox.New(cfg.CommandPolicy())
	registry := tool.NewRegistry(guard, sb)
	registry.SetLogger(logger)

	command := fs.Arg(0)
	rest := fs.Args()[1:]

	switch command {
	case "exec":
		if len(rest) == 0 {
			fmt.Fprintln(os.Stderr, "warden: exec requires a command")
			return 2
		}
		res := sb.Execute(context.Background(), strings.Join(rest, " "))
		logger.Info(logging.CategoryCommand, "command_executed", "", map[string]any{
			"command":   res.Command,
			"exit_code": res.ExitCode,
		})
		if res.Success() {
			fmt.Println(res.Output())
			return 0
		}
		fmt.Fprintf(os.Stderr, "warden: exit code %d: %s\n", res.ExitCode, res.Output())
		if res.ExitCode > 0 {
			return res.ExitCode
		}
		return 1
	case "read":
		if len(rest) == 0 {
			fmt.Fprintln(os.Stderr, "warden: read requires a path")
			return 2
		}
		params := map[string]any{"path": rest[0]}
		if len(rest) > 1 {
			params["max_lines"] = rest[1]
		}
		return runTool(registry, "read_file", params)
	case "write":
		if len(rest) < 2 {
			fmt.Fprintln(os.Stderr, "warden: write requires a path and content")
			return 2
		}
		return runTool(registry, "write_file", map[string]any{
			"path":    rest[0],
			"content": rest[1],
			"append":  *appendMode,
		})
	case "ls":
		path := "."
		if len(rest) > 0 {
			path = rest[0]
		}
		params := map[string]any{"path": path}
		if len(rest) > 1 {
			params["pattern"] = rest[1]
		}
		return runTool(registry, "list_directory", params)
	case "search":
		if len(rest) < 2 {
			fmt.Fprintln(os.Stderr, "warden: search requires a path and a pattern")
			return 2
		}
		params := map[string]any{"path": rest[0], "pattern": rest[1]}
		if len(rest) > 2 {
			params["content"] = rest[2]
		}
		return runTool(registry, "search_files", params)
	case "info":
		if len(rest) == 0 {
			fmt.Fprintln(os.Stderr, "warden: info requires a path")
			return 2
		}
		return runTool(registry, "file_info", map[string]any{"path": rest[0]})
	case "rm":
		if len(rest) == 0 {
			fmt.Fprintln(os.Stderr, "warden: rm requires a path")
			return 2
		}
		return runTool(registry, "delete_file", map[string]any{"path": rest[0]})
	case "tools":
		data, err := json.MarshalIndent(registry.ToOpenAIFunctions(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warden: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	default:
		fmt.Fprintf(os.Stderr, "warden: unknown command %q\n", command)
		fs.Usage()
		return 2
	}
}

func runTool(registry *tool.Registry, name string, params map[string]any) int {
	result, err := registry.Execute(name, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warden: %v\n", err)
		return 1
	}
	if !result.Success {
		fmt.Fprintf(os.Stderr, "warden: %s\n", result.Error)
		return 1
	}
	fmt.Println(result.Output)
	return 0
}

func openLogger(cfg *config.Config) *logging.Logger {
	if cfg.System.LogDir == "" {
		return nil
	}
	sessionID := time.Now().UTC().Format("20060102-150405") + "-" + uuid.NewString()[:8]
	logger, err := logging.NewLogger(cfg.System.LogDir, sessionID)
	if err != nil {
		// Logging is best effort; the guards work without it.
		return nil
	}
	if level := strings.ToLower(cfg.System.LogLevel); level != "" {
		logger.SetMinLevel(logging.Level(level))
	}
	return logger
}
