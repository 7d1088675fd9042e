package bpacli

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// archiveReports moves reports older than hrThreshold hours from
// reportDir into archiveDir. Reports still inside the threshold stay
// put. A report that fails to move does not stop the others.
func archiveReports(reportDir, archiveDir string, hrThreshold int) (int, error) {
	log.Info("Archiving expired reports...")

	entries, err := ioutil.ReadDir(reportDir)
	if err != nil {
		return 0, errors.Wrapf(err, "could not read report directory %s", reportDir)
	}

	if err := os.MkdirAll(archiveDir, 0744); err != nil {
		return 0, errors.Wrapf(err, "could not create archive directory %s", archiveDir)
	}

	cutoff := time.Now().Add(-(time.Hour * time.Duration(hrThreshold)))

	var moved int
	var lastError error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		if !entry.ModTime().Before(cutoff) {
			continue
		}

		src := filepath.Join(reportDir, entry.Name())
		dst := filepath.Join(archiveDir, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			log.Error(err)
			lastError = err
			continue
		}

		log.WithFields(log.Fields{
			"report":      entry.Name(),
			"archived_at": time.Now(),
		}).Info("Report moved to archive")
		moved++
	}

	return moved, lastError
}
