package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/vix-4800/php-typehints-vsc/internal/indexer"
	"github.com/vix-4800/php-typehints-vsc/internal/lsp"
	"github.com/vix-4800/php-typehints-vsc/internal/lsp/hints"
	"github.com/vix-4800/php-typehints-vsc/internal/lsp/hover"
	"github.com/vix-4800/php-typehints-vsc/internal/php"
	"github.com/vix-4800/php-typehints-vsc/internal/settings"
)

func main() {
	log.SetFlags(0)

	projectRoot, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to get working directory: %v", err)
	}

	configDir, err := getProjectConfigFolder(projectRoot)
	if err != nil {
		log.Fatalf("Failed to prepare config directory: %v", err)
	}

	settingsManager, err := settings.NewManager(filepath.Join(configDir, "settings.json"))
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	fileScanner, err := indexer.NewFileScanner(projectRoot, filepath.Join(configDir, "filescanner.db"))
	if err != nil {
		log.Fatalf("Failed to create file scanner: %v", err)
	}

	functionIndex, err := php.NewFunctionIndex(configDir)
	if err != nil {
		log.Fatalf("Failed to create function index: %v", err)
	}
	fileScanner.AddIndexer(functionIndex)

	if err := fileScanner.StartWatcher(); err != nil {
		log.Printf("Warning: failed to start file watcher: %v", err)
	}

	server := lsp.NewServer(fileScanner, settingsManager)
	server.RegisterInlayHintProvider(hints.NewReturnHintProvider())
	server.RegisterHoverProvider(hover.NewTypeHoverProvider(functionIndex))

	if err := server.Start(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("LSP server error: %v", err)
	}
}
