package main

import (
	"context"
	"log"
	"os"

	"github.com/avetrovs/notesync/internal/buildinfo"
	"github.com/avetrovs/notesync/internal/cli"
	"github.com/avetrovs/notesync/internal/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
