// Command invoke calls one toolkit tool and prints its output to stdout.
//
//	invoke -tool news_headlines -args '{"limit": 3, "format": "markup"}'
//	invoke -list
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lk2023060901/internet-data-toolkit/internal/conf"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/internet-data-toolkit/internal/tools"
)

var (
	configFile = flag.String("config", "", "config file path (defaults are used when empty)")
	envDir     = flag.String("env-dir", ".", "directory holding .env files")
	toolName   = flag.String("tool", "", "tool to invoke")
	args       = flag.String("args", "", "JSON argument object; read from stdin when \"-\"")
	list       = flag.Bool("list", false, "print the toolkit descriptor and exit")
	verbose    = flag.Bool("v", false, "log at debug level to stderr")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if _, err := conf.LoadEnv(*envDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := newLogger(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	toolkit, err := tools.New(config, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *list {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(toolkit.Describe()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if *toolName == "" {
		fmt.Fprintln(os.Stderr, "usage: invoke -tool NAME [-args JSON] | -list")
		flag.PrintDefaults()
		return 2
	}

	input := *args
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		input = string(data)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output, err := toolkit.Invoke(ctx, *toolName, input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	fmt.Fprintln(os.Stdout, output)
	return 0
}

// newLogger keeps stdout for the tool output: the configured file output is
// honored, console output goes to stderr at error level unless -v is set.
func newLogger(config *conf.Config) (*logger.Logger, error) {
	if *verbose {
		return logger.Development()
	}
	if config.Log.Output == "file" {
		return logger.New(config.Log.Logger())
	}
	return logger.Quiet()
}
