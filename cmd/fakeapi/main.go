package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tiernerd/internal/buildinfo"
	"github.com/dmitrijs2005/tiernerd/internal/fakeapi"
	"github.com/dmitrijs2005/tiernerd/internal/fakeapi/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := fakeapi.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
