package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/localauth/internal/cli"
	"github.com/dmitrijs2005/localauth/internal/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(ctx)
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

}
