// These structs exist for unmarshalling results from the MySonicWall
// back end. They only ever live in memory while a response is being
// flattened; nothing here is persisted.

package models

import (
	"encoding/json"
)

// Scalar absorbs the mixed string/number/boolean typing seen in
// MySonicWall payloads and keeps every value as its display text.
// Numbers and booleans keep the exact spelling the API used.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Scalar(v)
		return nil
	}
	*s = Scalar(data)
	return nil
}

func (s Scalar) String() string {
	return string(s)
}

// BackupPrefsResponse is the payload of GET /api/product/backupprefs.
// Preference files are grouped by firmware version; the latest backup
// in a group carries latestBackUp = "YES".
type BackupPrefsResponse struct {
	Content struct {
		SerialNumber    Scalar            `json:"serialNumber"`
		PrefFileVerList []PrefFileVersion `json:"prefFileVerList"`
	} `json:"content"`
}

type PrefFileVersion struct {
	FirmwareVersion Scalar     `json:"firmwareVersion"`
	PFileCnt        Scalar     `json:"pFileCnt"`
	IsGoldStandard  Scalar     `json:"isGoldStandard"`
	PrefFileList    []PrefFile `json:"prefFileList"`
}

type PrefFile struct {
	PrefFileID            Scalar `json:"prefFileID"`
	FileName              Scalar `json:"fileName"`
	FileType              Scalar `json:"fileType"`
	Description           Scalar `json:"description"`
	CreatedOn             Scalar `json:"createdOn"`
	CreatedTimeInSec      Scalar `json:"createdTimeInSec"`
	FileSize              Scalar `json:"fileSize"`
	PinIt                 Scalar `json:"pinIt"`
	GoldStandard          Scalar `json:"goldStandard"`
	Comments              Scalar `json:"comments"`
	FirmwareAvailable     Scalar `json:"firmwareAvailable"`
	ReleaseNotesURI       Scalar `json:"releaseNotesUri"`
	BackupUsername        Scalar `json:"backupUsername"`
	FirmwareBuildDatetime Scalar `json:"firmwareBuildDatetime"`
	LatestBackUp          Scalar `json:"latestBackUp"`
}
