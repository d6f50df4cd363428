package main

import (
	"context"
	"flag"
	"log"

	"github.com/stunningdev/userservice/internal/server"
	"github.com/stunningdev/userservice/internal/server/config"
)

func main() {

	configPath := flag.String("c", "", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
