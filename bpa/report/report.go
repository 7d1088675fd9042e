// Package report turns audit outcomes into the delimited backup
// report. Rendering is pure; saving happens exactly once per run,
// against a local path or an S3 URI.
package report

import (
	"bytes"
	"encoding/csv"

	"github.com/pkg/errors"

	"github.com/fleetops/bpa-app/bpa/constants"
	"github.com/fleetops/bpa-app/bpa/models"
)

// Header is the fixed column order of the report. Consumers key on
// these names; do not reorder.
var Header = []string{
	"SerialNumber",
	"FirmwareVersion",
	"FileCount",
	"IsGoldStandard",
	"PrefFileID",
	"FileName",
	"FileType",
	"Description",
	"CreatedOn",
	"CreatedTimeInSec",
	"FileSize",
	"PinIt",
	"GoldStandard",
	"Comments",
	"FirmwareAvailable",
	"ReleaseNotesUri",
	"BackupUsername",
	"FirmwareBuildDatetime",
	"LatestBackup",
}

// Render serializes the full outcome sequence into the finished CSV
// document: header first, then one row per record in outcome order.
// RFC 4180 quoting keeps identifier text, leading zeros included,
// intact for any reader that takes the fields as text.
func Render(outcomes []models.Outcome) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, errors.Wrap(err, "failed to write report header")
	}

	for _, outcome := range outcomes {
		for _, row := range Rows(outcome) {
			if err := w.Write(row); err != nil {
				return nil, errors.Wrapf(err, "failed to write report row for serial %s", outcome.Serial)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush report")
	}

	return buf.Bytes(), nil
}

// Rows maps one outcome onto its report rows. This is the only place
// outcome kinds become display strings.
func Rows(outcome models.Outcome) [][]string {
	switch outcome.Kind {
	case models.OutcomeFound:
		rows := make([][]string, 0, len(outcome.Records))
		for _, r := range outcome.Records {
			rows = append(rows, []string{
				r.SerialNumber,
				r.FirmwareVersion,
				r.FileCount,
				r.IsGoldStandard,
				r.PrefFileID,
				r.FileName,
				r.FileType,
				r.Description,
				r.CreatedOn,
				r.CreatedTimeInSec,
				r.FileSize,
				r.PinIt,
				r.GoldStandard,
				r.Comments,
				r.FirmwareAvailable,
				r.ReleaseNotesURI,
				r.BackupUsername,
				r.FirmwareBuildDatetime,
				constants.StatusFound,
			})
		}
		return rows
	case models.OutcomeNoBackup:
		return [][]string{placeholderRow(outcome.Serial, constants.StatusNoBackup)}
	default:
		return [][]string{placeholderRow(outcome.Serial, constants.StatusError)}
	}
}

// placeholderRow carries only the requested serial and the status; a
// serial with nothing to report still occupies one line.
func placeholderRow(serial, status string) []string {
	row := make([]string, len(Header))
	row[0] = serial
	row[len(row)-1] = status
	return row
}
