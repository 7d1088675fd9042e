// Package gen produces synthetic audit inputs: serial lists and
// backup preferences payloads shaped like MySonicWall responses.
// Nothing here touches the real API; the output feeds local runs and
// tests.
package gen

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"time"

	randomdata "github.com/Pallinder/go-randomdata"
	"github.com/sirupsen/logrus"

	"github.com/fleetops/bpa-app/bpa/models"
)

// Serial prefixes follow the vendor OUIs most fleets report.
var serialPrefixes = []string{"2CB8ED", "18B169", "C0EAE4", "4C1A3D"}

// GenerateSerialList writes count synthetic appliance serials to
// fileName, one per line, and returns the serials it wrote. An
// existing file is replaced.
func GenerateSerialList(fileName string, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("serial count must be positive, got %d", count)
	}

	file, err := os.OpenFile(filepath.Clean(fileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create serial list %s: %w", fileName, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logrus.Warnf("Failed to close file %s", err.Error())
		}
	}()

	generated := make([]string, 0, count)
	w := bufio.NewWriter(file)
	for i := 0; i < count; i++ {
		serial := RandomSerial()
		if _, err := fmt.Fprintln(w, serial); err != nil {
			return nil, fmt.Errorf("failed to write serial list: %w", err)
		}
		generated = append(generated, serial)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write serial list: %w", err)
	}

	return generated, nil
}

// RandomSerial returns a serial shaped like the twelve hex digit
// appliance IDs MySonicWall reports.
func RandomSerial() string {
	return randomdata.StringSample(serialPrefixes...) + randomHex(6)
}

func randomHex(n int) string {
	const digits = "0123456789ABCDEF"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[randomdata.Number(len(digits))]
	}
	return string(b)
}

// GenerateBackupPrefs builds a synthetic backup preferences response
// for the given serial. Every firmware group carries exactly one file
// flagged as the latest backup, matching what the live API does.
func GenerateBackupPrefs(serial string) *models.BackupPrefsResponse {
	var resp models.BackupPrefsResponse
	resp.Content.SerialNumber = models.Scalar(serial)

	groups := randomdata.Number(1, 4)
	for g := 0; g < groups; g++ {
		fileCount := randomdata.Number(1, 5)
		group := models.PrefFileVersion{
			FirmwareVersion: models.Scalar(randomFirmware()),
			PFileCnt:        models.Scalar(strconv.Itoa(fileCount)),
			IsGoldStandard:  models.Scalar(randomdata.StringSample("true", "false")),
		}

		latest := randomdata.Number(fileCount)
		for f := 0; f < fileCount; f++ {
			flag := "NO"
			if f == latest {
				flag = "YES"
			}
			group.PrefFileList = append(group.PrefFileList, randomPrefFile(serial, flag))
		}

		resp.Content.PrefFileVerList = append(resp.Content.PrefFileVerList, group)
	}

	return &resp
}

// WriteBackupPrefs writes the JSON form of a synthetic backup
// preferences response to fileName, for use as a stub API payload.
func WriteBackupPrefs(fileName, serial string) error {
	data, err := json.MarshalIndent(GenerateBackupPrefs(serial), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup preferences: %w", err)
	}

	if err := ioutil.WriteFile(filepath.Clean(fileName), data, 0600); err != nil {
		return fmt.Errorf("failed to write backup preferences %s: %w", fileName, err)
	}

	return nil
}

func randomFirmware() string {
	major := randomdata.StringSample("SonicOS 7.0.1", "SonicOS 7.1.1", "SonicOS 6.5.4")
	return fmt.Sprintf("%s-%d", major, randomdata.Number(1000, 9999))
}

func randomPrefFile(serial, latest string) models.PrefFile {
	created := time.Now().Add(-time.Duration(randomdata.Number(1, 365*24)) * time.Hour)

	return models.PrefFile{
		PrefFileID:            models.Scalar(strconv.Itoa(randomdata.Number(100000, 999999))),
		FileName:              models.Scalar(fmt.Sprintf("sonicwall-%s-%d.exp", serial, created.Unix())),
		FileType:              "EXP",
		Description:           models.Scalar(randomEmpty(half, func() string { return randomdata.Adjective() + " backup" })),
		CreatedOn:             models.Scalar(created.Format("01/02/2006 15:04:05")),
		CreatedTimeInSec:      models.Scalar(strconv.FormatInt(created.Unix(), 10)),
		FileSize:              models.Scalar(strconv.Itoa(randomdata.Number(4096, 1048576))),
		PinIt:                 models.Scalar(randomdata.StringSample("true", "false")),
		GoldStandard:          models.Scalar(randomdata.StringSample("false", "false", "false", "true")),
		Comments:              models.Scalar(randomEmpty(quarter, randomdata.SillyName)),
		FirmwareAvailable:     models.Scalar(randomdata.StringSample("true", "false")),
		ReleaseNotesURI:       models.Scalar(fmt.Sprintf("https://www.mysonicwall.com/releasenotes/%d", randomdata.Number(10000, 99999))),
		BackupUsername:        models.Scalar(randomdata.Email()),
		FirmwareBuildDatetime: models.Scalar(created.Add(-90 * 24 * time.Hour).UTC().Format(time.RFC3339)),
		LatestBackUp:          models.Scalar(latest),
	}
}

type weight float64

const (
	half    weight = 0.5
	quarter weight = 0.25
	less    weight = 0.1
)

// randomEmpty uses the weight value to check if we should return an empty string
func randomEmpty(w weight, supplier func() string) string {
	if float64(w) >= randomdata.Decimal(1) {
		return supplier()
	}
	return ""
}
