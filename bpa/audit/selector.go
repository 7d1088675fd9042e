package audit

import (
	"github.com/fleetops/bpa-app/bpa/constants"
	"github.com/fleetops/bpa-app/bpa/models"
)

// SelectLatestBackups walks every firmware group of the response in
// encounter order and keeps each preference file flagged as the latest
// backup. A response with no flagged file anywhere yields a single
// NoBackup outcome tied to the serial the caller asked for.
func SelectLatestBackups(requested string, prefs *models.BackupPrefsResponse) models.Outcome {
	var records []models.BackupRecord

	for _, group := range prefs.Content.PrefFileVerList {
		for _, file := range group.PrefFileList {
			if file.LatestBackUp != constants.StatusFound {
				continue
			}

			records = append(records, flatten(prefs.Content.SerialNumber, group, file))
		}
	}

	if len(records) == 0 {
		return models.Outcome{Serial: requested, Kind: models.OutcomeNoBackup}
	}

	return models.Outcome{Serial: requested, Kind: models.OutcomeFound, Records: records}
}

// flatten merges one preference file with its enclosing firmware group
// and the response-level serial into a single report record.
func flatten(serial models.Scalar, group models.PrefFileVersion, file models.PrefFile) models.BackupRecord {
	return models.BackupRecord{
		SerialNumber:          serial.String(),
		FirmwareVersion:       group.FirmwareVersion.String(),
		FileCount:             group.PFileCnt.String(),
		IsGoldStandard:        group.IsGoldStandard.String(),
		PrefFileID:            file.PrefFileID.String(),
		FileName:              file.FileName.String(),
		FileType:              file.FileType.String(),
		Description:           file.Description.String(),
		CreatedOn:             file.CreatedOn.String(),
		CreatedTimeInSec:      file.CreatedTimeInSec.String(),
		FileSize:              file.FileSize.String(),
		PinIt:                 file.PinIt.String(),
		GoldStandard:          file.GoldStandard.String(),
		Comments:              file.Comments.String(),
		FirmwareAvailable:     file.FirmwareAvailable.String(),
		ReleaseNotesURI:       file.ReleaseNotesURI.String(),
		BackupUsername:        file.BackupUsername.String(),
		FirmwareBuildDatetime: file.FirmwareBuildDatetime.String(),
	}
}
