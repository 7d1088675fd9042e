package bpacli

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/urfave/cli"

	"github.com/fleetops/bpa-app/bpa/constants"
	"github.com/fleetops/bpa-app/bpa/testUtils"
)

const cliBackupPrefsTemplate = `{
	"content": {
		"serialNumber": "0000TEMPLATE",
		"prefFileVerList": [
			{
				"firmwareVersion": "SonicOS 7.0.1-5030",
				"pFileCnt": 2,
				"isGoldStandard": false,
				"prefFileList": [
					{"prefFileID": 118254, "fileName": "sonicwall-0000TEMPLATE.exp", "fileType": "EXP", "latestBackUp": "YES"},
					{"prefFileID": 118200, "fileName": "sonicwall-0000TEMPLATE-old.exp", "fileType": "EXP", "latestBackUp": "NO"}
				]
			}
		]
	}
}`

type CLITestSuite struct {
	suite.Suite
	testApp *cli.App
}

func (s *CLITestSuite) SetupTest() {
	s.testApp = GetApp()
}

func (s *CLITestSuite) TearDownTest() {
	testUtils.PrintSeparator()
}

func (s *CLITestSuite) TestSetup() {
	assert.Equal(s.T(), "bpa", s.testApp.Name)
	assert.Equal(s.T(), "Backup Preferences Audit CLI", s.testApp.Usage)
	assert.Equal(s.T(), constants.Version, s.testApp.Version)
}

func (s *CLITestSuite) TestAuditCommand() {
	assert := assert.New(s.T())

	buf := new(bytes.Buffer)
	s.testApp.Writer = buf

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		serial := r.URL.Query().Get("serial")
		switch serial {
		case "":
			http.Error(w, `{"message":"serial is required"}`, http.StatusBadRequest)
		case "EMPTY0000001":
			fmt.Fprint(w, `{"content":{"serialNumber":"EMPTY0000001","prefFileVerList":[]}}`)
		default:
			fmt.Fprint(w, strings.Replace(cliBackupPrefsTemplate, "0000TEMPLATE", serial, -1))
		}
	}))
	defer server.Close()

	restore := testUtils.SetAndRestoreEnvKey("BPA_API_URL", server.URL)
	defer restore()

	random := testUtils.RandomSerial(s.T())
	dir := s.T().TempDir()
	input := testUtils.WriteSerialFile(s.T(), dir, []string{"2CB8ED694AA0", "EMPTY0000001", "", random})
	output := filepath.Join(dir, "backupreport.csv")

	args := []string{"bpa", "audit", "--token", "Bearer test-token", "--input", input, "--output", output}
	err := s.testApp.Run(args)
	assert.Nil(err)

	data, err := ioutil.ReadFile(filepath.Clean(output))
	assert.Nil(err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	assert.Nil(err)
	assert.Len(rows, 5)
	assert.Equal("2CB8ED694AA0", rows[1][0])
	assert.Equal("YES", rows[1][18])
	assert.Equal("EMPTY0000001", rows[2][0])
	assert.Equal("NoBackup", rows[2][18])
	assert.Equal("", rows[3][0])
	assert.Equal("Error", rows[3][18])
	assert.Equal(random, rows[4][0])
	assert.Equal("YES", rows[4][18])

	assert.Contains(buf.String(), "Fetching: 2CB8ED694AA0")
	assert.Contains(buf.String(), "Fetching: "+random)
	assert.Contains(buf.String(), "No backup found for EMPTY0000001")
	assert.Contains(buf.String(), "Report written to "+output)
}

func (s *CLITestSuite) TestAuditCommandMissingInput() {
	assert := assert.New(s.T())

	buf := new(bytes.Buffer)
	s.testApp.Writer = buf

	dir := s.T().TempDir()
	input := filepath.Join(dir, "nonexistent.txt")
	output := filepath.Join(dir, "backupreport.csv")

	args := []string{"bpa", "audit", "--token", "Bearer test-token", "--input", input, "--output", output}
	err := s.testApp.Run(args)
	assert.NotNil(err)
	assert.Contains(err.Error(), "could not read serial list")

	_, err = os.Stat(output)
	assert.True(os.IsNotExist(err))
}

func (s *CLITestSuite) TestAuditCommandMissingToken() {
	buf := new(bytes.Buffer)
	s.testApp.Writer = buf

	restore := testUtils.SetAndRestoreEnvKey("BPA_API_TOKEN", "")
	defer restore()

	// An exhausted stdin means the prompt yields nothing.
	gotten, err := resolveAuthorization("", strings.NewReader(""), buf)
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), constants.MissingTokenErr, err.Error())
	assert.Empty(s.T(), gotten)
	assert.Contains(s.T(), buf.String(), "Authorization value")
}

func (s *CLITestSuite) TestResolveAuthorizationPrecedence() {
	assert := assert.New(s.T())

	restore := testUtils.SetAndRestoreEnvKey("BPA_API_TOKEN", "Bearer from-env")
	defer restore()

	// Flag wins over the environment.
	got, err := resolveAuthorization("Bearer from-flag", strings.NewReader(""), ioutil.Discard)
	assert.Nil(err)
	assert.Equal("Bearer from-flag", got)

	// Environment wins over the prompt.
	got, err = resolveAuthorization("", strings.NewReader("Bearer from-prompt\n"), ioutil.Discard)
	assert.Nil(err)
	assert.Equal("Bearer from-env", got)

	// Prompt is the last resort.
	unset := testUtils.SetAndRestoreEnvKey("BPA_API_TOKEN", "")
	defer unset()
	got, err = resolveAuthorization("", strings.NewReader("Bearer from-prompt\r\n"), ioutil.Discard)
	assert.Nil(err)
	assert.Equal("Bearer from-prompt", got)
}

func (s *CLITestSuite) TestGenerateSyntheticSerials() {
	assert := assert.New(s.T())

	buf := new(bytes.Buffer)
	s.testApp.Writer = buf

	dir := s.T().TempDir()
	file := filepath.Join(dir, "serials.txt")
	prefsDir := filepath.Join(dir, "payloads")

	args := []string{"bpa", "generate-synthetic-serials", "--file", file, "--count", "5", "--prefs-dir", prefsDir}
	err := s.testApp.Run(args)
	assert.Nil(err)
	assert.Contains(buf.String(), "Wrote 5 serial(s) to "+file)
	assert.Contains(buf.String(), "Wrote 5 backupprefs payload(s) to "+prefsDir)

	data, err := ioutil.ReadFile(filepath.Clean(file))
	assert.Nil(err)
	assert.Len(strings.Split(strings.TrimRight(string(data), "\n"), "\n"), 5)

	payloads, err := ioutil.ReadDir(prefsDir)
	assert.Nil(err)
	assert.Len(payloads, 5)
}

func (s *CLITestSuite) TestGenerateSyntheticSerialsRequiresFile() {
	err := s.testApp.Run([]string{"bpa", "generate-synthetic-serials", "--count", "5"})
	assert.NotNil(s.T(), err)
	assert.Contains(s.T(), err.Error(), "--file")
}

func (s *CLITestSuite) TestArchiveReports() {
	assert := assert.New(s.T())

	buf := new(bytes.Buffer)
	s.testApp.Writer = buf

	// Work on a copy so the command never mangles the fixtures. The
	// copy gets fresh mod times; the entries meant to age out are aged
	// explicitly.
	reportDir, cleanup := testUtils.CopyToTemporaryDirectory(s.T(), "testdata/reports")
	defer cleanup()
	archiveDir := filepath.Join(s.T().TempDir(), "archive")

	stale := filepath.Join(reportDir, "backupreport-20240501.csv")
	staleTime := time.Now().Add(-48 * time.Hour)
	assert.Nil(os.Chtimes(stale, staleTime, staleTime))

	note := filepath.Join(reportDir, "notes.txt")
	assert.Nil(os.Chtimes(note, staleTime, staleTime))

	args := []string{"bpa", "archive-reports", "--dir", reportDir, "--archive", archiveDir}
	err := s.testApp.Run(args)
	assert.Nil(err)
	assert.Contains(buf.String(), "Archived 1 report(s)")

	_, err = os.Stat(filepath.Join(archiveDir, "backupreport-20240501.csv"))
	assert.Nil(err)
	_, err = os.Stat(stale)
	assert.True(os.IsNotExist(err))

	// The fresh report and the stray text file stay put.
	_, err = os.Stat(filepath.Join(reportDir, "backupreport-20240502.csv"))
	assert.Nil(err)
	_, err = os.Stat(note)
	assert.Nil(err)
}

func (s *CLITestSuite) TestCleanupArchive() {
	assert := assert.New(s.T())

	buf := new(bytes.Buffer)
	s.testApp.Writer = buf

	archiveDir := s.T().TempDir()
	testUtils.MakeDirToDelete(s.Suite, archiveDir)

	old := time.Now().Add(-48 * time.Hour)
	entries, err := ioutil.ReadDir(archiveDir)
	assert.Nil(err)
	for _, entry := range entries {
		assert.Nil(os.Chtimes(filepath.Join(archiveDir, entry.Name()), old, old))
	}

	args := []string{"bpa", "cleanup-archive", "--archive", archiveDir, "--threshold", "24"}
	err = s.testApp.Run(args)
	assert.Nil(err)
	assert.Contains(buf.String(), "Removed 4 archived report(s)")

	remaining, err := ioutil.ReadDir(archiveDir)
	assert.Nil(err)
	assert.Empty(remaining)
}

func (s *CLITestSuite) TestCleanupArchiveBadThreshold() {
	err := s.testApp.Run([]string{"bpa", "cleanup-archive", "--archive", s.T().TempDir(), "--threshold", "not-a-number"})
	assert.NotNil(s.T(), err)
}

func (s *CLITestSuite) TestArchiveReportsMissingDir() {
	moved, err := archiveReports(filepath.Join(s.T().TempDir(), "missing"), s.T().TempDir(), 24)
	assert.NotNil(s.T(), err)
	assert.Contains(s.T(), err.Error(), "could not read report directory")
	assert.Zero(s.T(), moved)
}

func (s *CLITestSuite) TestFirstNonEmpty() {
	assert.Equal(s.T(), "a", firstNonEmpty("a", "b"))
	assert.Equal(s.T(), "b", firstNonEmpty("", "b"))
	assert.Equal(s.T(), "", firstNonEmpty("", ""))
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}
