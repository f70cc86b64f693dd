// Package dataloaders finds the data files a draft is configured with.
package dataloaders

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const (
	TalentDir = "talent"
	LeagueDir = "leagues"
)

// Open looks for filename as given, then under dataPath/dir, then under
// dataPath/dir/default.
func Open(dataPath, dir, filename string) (*os.File, error) {
	candidates := []string{filename}
	if !filepath.IsAbs(filename) {
		candidates = append(candidates,
			filepath.Join(dataPath, dir, filename),
			filepath.Join(dataPath, dir, "default", filename))
	}
	var firstErr error
	for _, path := range candidates {
		f, err := os.Open(path)
		if err == nil {
			log.Debug().Str("path", path).Msg("opened-data-file")
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
