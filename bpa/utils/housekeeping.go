package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DeleteExpiredFiles removes every regular file in dir whose
// modification time falls before cutoff. The directory itself stays in
// place. Returns the number of files removed.
func DeleteExpiredFiles(dir string, cutoff time.Time) (filesDeleted int, err error) {
	f, err := os.Open(filepath.Clean(dir))
	if err != nil {
		err = errors.Wrapf(err, "could not open dir: %s", dir)
		log.Error(err)
		return 0, err
	}
	files, err := f.Readdir(-1)
	if err != nil {
		err = errors.Wrapf(err, "error reading files from dir: %s", f.Name())
		log.Error(err)
		return 0, err
	}
	if err = f.Close(); err != nil {
		err = errors.Wrapf(err, "error closing dir: %s", f.Name())
		log.Error(err)
		return 0, err
	}

	for _, file := range files {
		if file.IsDir() || !file.ModTime().Before(cutoff) {
			continue
		}
		fmt.Printf("Deleting %s.\n", file.Name())
		log.Infof("deleting %s", file.Name())
		if err = os.Remove(filepath.Join(dir, file.Name())); err != nil {
			err = errors.Wrapf(err, "error deleting file: %s from dir: %s", file.Name(), dir)
			log.Error(err)
			return filesDeleted, err
		}
		filesDeleted++
	}

	return filesDeleted, nil
}
