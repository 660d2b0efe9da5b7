package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/nyan233/smoldb"
)

type configuration struct {
	DataDir string
	Name    string
	MMap    bool
	Reset   bool
	Dump    bool
	Verbose bool
}

func main() {
	config := parseArguments()

	level := slog.LevelWarn
	if config.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	db := smoldb.NewDB(smoldb.Config{
		RootDir:     config.DataDir,
		Name:        config.Name,
		MMap:        config.MMap,
		ResetOnOpen: config.Reset,
		Logger:      logger,
	})
	if err := db.Init(); err != nil {
		log.Fatalf("open %s: %v (use -reset to initialize it)", db.Path(), err)
	}
	defer db.Close()

	if err := smoldb.NewShell(db, os.Stdout, config.Dump).Run(os.Stdin); err != nil {
		log.Printf("read commands: %v", err)
	}
}

// parseArguments processes command-line flags
func parseArguments() configuration {
	var config configuration

	flag.StringVar(&config.DataDir, "dir", ".", "directory holding the page file")
	flag.StringVar(&config.Name, "name", "hello", "page file name")
	flag.BoolVar(&config.MMap, "mmap", false, "keep the page file memory mapped")
	flag.BoolVar(&config.Reset, "reset", false, "initialize the page on startup")
	flag.BoolVar(&config.Dump, "dump", true, "print a page dump after every command")
	flag.BoolVar(&config.Verbose, "v", false, "debug logging")

	flag.Parse()

	return config
}
