package main

import (
	"flag"
	"fmt"
	"os"

	"abd/internal/di"
	"abd/internal/structures"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to the config file")
	debug := flag.Bool("debug", false, "duplicate logs to stderr")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "abd: %s\n", err)
		os.Exit(1)
	}
}
