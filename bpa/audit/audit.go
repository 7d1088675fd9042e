// Package audit runs the backup preferences audit: walk the serial
// list in order, fetch each serial's backup preferences, keep the
// entries flagged as the latest backup, and hand the outcomes to the
// report. Serials are processed one at a time; a serial that fails
// stays in the run as a failed outcome instead of stopping it.
package audit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fleetops/bpa-app/bpa/client"
	"github.com/fleetops/bpa-app/bpa/models"
	"github.com/fleetops/bpa-app/bpa/monitoring"
	"github.com/fleetops/bpa-app/bpa/report"
	"github.com/fleetops/bpa-app/bpa/serials"
	"github.com/fleetops/bpa-app/log"
)

// Auditor wires the serial source, the MySonicWall client, and the
// report destination for one audit run.
type Auditor struct {
	Client client.APIClient
	Loader serials.Loader
	Saver  report.Saver

	// Console receives per-serial progress lines. Defaults to stdout.
	Console io.Writer
}

// Run executes a full audit pass. Only a serial list that cannot be
// read or a report that cannot be saved fails the run; everything
// that goes wrong per serial is recorded in the report instead.
func (a *Auditor) Run(ctx context.Context, inputPath, outputPath string) error {
	endLoad := monitoring.NewChild(ctx, "load-serials")
	list, err := a.Loader.LoadSerials(ctx, inputPath)
	endLoad()
	if err != nil {
		return err
	}

	outcomes := a.processSerials(ctx, list)

	endRender := monitoring.NewChild(ctx, "render-report")
	document, err := report.Render(outcomes)
	endRender()
	if err != nil {
		return err
	}

	endSave := monitoring.NewChild(ctx, "save-report")
	err = a.Saver.SaveReport(ctx, outputPath, document)
	endSave()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.console(), "Report written to %s (%d serial(s))\n", outputPath, len(list))
	return nil
}

// processSerials fetches and flattens every serial in list order. The
// returned outcomes line up with the input one to one.
func (a *Auditor) processSerials(ctx context.Context, list []string) []models.Outcome {
	outcomes := make([]models.Outcome, 0, len(list))
	errorCount := 0

	for _, serial := range list {
		fmt.Fprintf(a.console(), "Fetching: %s\n", serial)
		log.Audit.WithField("serial", serial).Info("fetching backup preferences")

		outcome := func() models.Outcome {
			endFetch := monitoring.NewChild(ctx, "fetch-backupprefs")
			prefs, err := a.Client.GetBackupPrefs(ctx, serial)
			endFetch()
			if err != nil {
				return models.Outcome{Serial: serial, Kind: models.OutcomeFailed, Cause: err}
			}

			return SelectLatestBackups(serial, prefs)
		}()

		switch outcome.Kind {
		case models.OutcomeFailed:
			errorCount++
			fmt.Fprintf(a.console(), "Failed: %s\n", outcome.Cause)
			log.Audit.WithField("serial", serial).Error(outcome.Cause)
		case models.OutcomeNoBackup:
			fmt.Fprintf(a.console(), "No backup found for %s\n", serial)
			log.Audit.WithField("serial", serial).Info("no latest backup entries")
		default:
			fmt.Fprintf(a.console(), "Found latest backup for %s (%d file(s))\n", serial, len(outcome.Records))
			log.Audit.WithField("serial", serial).Infof("selected %d latest backup entries", len(outcome.Records))
		}

		outcomes = append(outcomes, outcome)
	}

	log.Audit.Infof("Audited %d serial(s) with %d fetch failure(s)", len(list), errorCount)
	return outcomes
}

func (a *Auditor) console() io.Writer {
	if a.Console != nil {
		return a.Console
	}

	return os.Stdout
}
