package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/agentdesk/internal/client/cli"
	"github.com/dmitrijs2005/agentdesk/internal/client/config"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("%v", err)
		}
	}()

	app.Run(ctx)

}
