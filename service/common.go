package service

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"folio/app/config"
	"folio/app/repositories"
)

var osExit = os.Exit

// backupDir is where "media backup" writes when no file is given.
var backupDir = "data/backups"

// confirm asks a yes/no question on stdin. Anything but y or Y is a no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

func indexExists(cfg *config.Config) bool {
	entries, err := os.ReadDir(cfg.Media.IndexDir)
	return err == nil && len(entries) > 0
}

func openMediaIndex(cfg *config.Config) (*badger.DB, error) {
	if err := os.MkdirAll(cfg.Media.IndexDir, 0755); err != nil {
		return nil, fmt.Errorf("create media index directory: %w", err)
	}
	return repositories.OpenBadger(cfg.Media.IndexDir)
}
