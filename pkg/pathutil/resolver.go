// Package pathutil locates the ledger's database file.
package pathutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultFileName is the database file created when none exists yet.
const DefaultFileName = "finledger.db"

// Resolver resolves the database file path from an explicit setting, an
// existing file discovered under the root directory, or the default.
type Resolver struct {
	root   string
	dbPath string
}

// Config represents the configuration for Resolver.
type Config struct {
	// Root is the directory searched for an existing database file.
	Root string
	// DatabasePath is an explicit database file path; it wins over discovery.
	DatabasePath string
}

// New creates a Resolver with the given configuration.
func New(config Config) *Resolver {
	root := config.Root
	if root == "" {
		root = "."
	}
	return &Resolver{
		root:   root,
		dbPath: config.DatabasePath,
	}
}

// DatabasePath returns the path to use: the explicit path when set, a single
// discovered database file otherwise, and the default path under the root
// when nothing is found. Discovery with multiple candidates should go
// through Candidates so the caller can let the user choose.
func (r *Resolver) DatabasePath() string {
	if r.dbPath != "" {
		return r.dbPath
	}
	if candidates := r.Candidates(); len(candidates) == 1 {
		return candidates[0]
	}
	return filepath.Join(r.root, DefaultFileName)
}

// Candidates walks the root directory for existing database files
// (*.db or *.sqlite3).
func (r *Resolver) Candidates() []string {
	var matches []string
	_ = filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite3") {
			matches = append(matches, path)
		}
		return nil
	})
	return matches
}
