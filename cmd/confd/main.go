// Command confd runs the configuration controller: it accepts HTTP/1.0
// GET/PUT/DELETE requests against a JSON configuration tree, serializes
// edits through a single Apply Serializer, and forwards accepted trees to
// a sibling router process.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aofei/confd"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "dump" {
		runDump(os.Args[2:])
		return
	}

	configFile := flag.String("config", "", "path to a bootstrap configuration file (.json, .toml, .yaml, .yml, or .ini)")
	address := flag.String("address", "", "override the listening address")
	routerAddress := flag.String("router-address", "", "override the router address")
	flag.Parse()

	cfg, err := confd.LoadConfigFile(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "confd:", err)
		os.Exit(1)
	}
	cfg.ConfigFile = *configFile

	if *address != "" {
		cfg.Address = *address
	}
	if *routerAddress != "" {
		cfg.RouterAddress = *routerAddress
	}

	c := confd.New(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		c.Logger.Info("confd: shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.Shutdown(ctx); err != nil {
			c.Logger.Errorf("confd: shutdown error: %v", err)
		}
	}()

	if err := c.Serve(); err != nil {
		c.Logger.Fatalf("confd: %v", err)
	}
}
