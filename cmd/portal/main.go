package main

import (
	"context"
	"log"
	"os"

	"github.com/rsharma2005/civicbridge/internal/buildinfo"
	"github.com/rsharma2005/civicbridge/internal/portal/cli"
	"github.com/rsharma2005/civicbridge/internal/portal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
