// Package main provides the manifestctl command-line application.
package main

import (
	"log"
	"os"

	"github.com/clean-dependency-project/manifestctl/internal/cli"
)

func main() {
	app := cli.NewApp()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
