package models

// OutcomeKind tags the result of auditing one serial.
type OutcomeKind uint8

const (
	OutcomeFound    OutcomeKind = iota
	OutcomeNoBackup             // call succeeded, no entry flagged as the latest backup
	OutcomeFailed               // fetch failed, cause retained on the Outcome
)

// Outcome is the internal result of auditing a single serial. The
// report writer is the only place these are turned into display
// strings.
type Outcome struct {
	Serial  string
	Kind    OutcomeKind
	Records []BackupRecord // one or more when Kind is OutcomeFound
	Cause   error          // set when Kind is OutcomeFailed
}

// BackupRecord is one flattened latest-backup entry: the pref file
// fields plus the firmware group and serial it hangs off of. All values
// are display text; fields absent from the payload stay empty.
type BackupRecord struct {
	SerialNumber          string
	FirmwareVersion       string
	FileCount             string
	IsGoldStandard        string
	PrefFileID            string
	FileName              string
	FileType              string
	Description           string
	CreatedOn             string
	CreatedTimeInSec      string
	FileSize              string
	PinIt                 string
	GoldStandard          string
	Comments              string
	FirmwareAvailable     string
	ReleaseNotesURI       string
	BackupUsername        string
	FirmwareBuildDatetime string
}
