package bpacli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/fleetops/bpa-app/bpa/audit"
	"github.com/fleetops/bpa-app/bpa/client"
	"github.com/fleetops/bpa-app/bpa/constants"
	"github.com/fleetops/bpa-app/bpa/gen"
	"github.com/fleetops/bpa-app/bpa/monitoring"
	"github.com/fleetops/bpa-app/bpa/report"
	"github.com/fleetops/bpa-app/bpa/serials"
	"github.com/fleetops/bpa-app/bpa/utils"
	"github.com/fleetops/bpa-app/conf"
)

// App Name and usage.  Edit them here to prevent breaking tests
const Name = "bpa"
const Usage = "Backup Preferences Audit CLI"

func GetApp() *cli.App {
	return setUpApp()
}

func setUpApp() *cli.App {
	app := cli.NewApp()
	app.Name = Name
	app.Usage = Usage
	app.Version = constants.Version
	var token, inputPath, outputPath, fileName, prefsDir, reportDir, archiveDir, threshold string
	var count int
	app.Commands = []cli.Command{
		{
			Name:  "audit",
			Usage: "Audit every serial in the input list and write the backup report",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "token",
					Usage:       "Authorization value forwarded to MySonicWall, normally of the form 'Bearer ...'",
					Destination: &token,
				},
				cli.StringFlag{
					Name:        "input",
					Usage:       "Path or s3:// URI of the serial list, one serial per line",
					Destination: &inputPath,
				},
				cli.StringFlag{
					Name:        "output",
					Usage:       "Path or s3:// URI the report is written to",
					Destination: &outputPath,
				},
			},
			Action: func(c *cli.Context) error {
				authorization, err := resolveAuthorization(token, os.Stdin, app.Writer)
				if err != nil {
					return err
				}

				in := firstNonEmpty(inputPath, conf.GetEnv("BPA_SERIAL_FILE"), constants.DefaultSerialFile)
				out := firstNonEmpty(outputPath, conf.GetEnv("BPA_REPORT_FILE"), constants.DefaultReportFile)
				return runAudit(app.Writer, authorization, in, out)
			},
		},
		{
			Name:     "generate-synthetic-serials",
			Category: "Data generation",
			Usage:    "Write a synthetic serial list for local runs",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "file",
					Usage:       "Destination file for the serial list",
					Destination: &fileName,
				},
				cli.IntFlag{
					Name:        "count",
					Usage:       "How many serials to generate",
					Destination: &count,
				},
				cli.StringFlag{
					Name:        "prefs-dir",
					Usage:       "Optional directory that receives one synthetic backupprefs payload per serial",
					Destination: &prefsDir,
				},
			},
			Action: func(c *cli.Context) error {
				if fileName == "" {
					return errors.New("destination file (--file) is required")
				}

				generated, err := gen.GenerateSerialList(fileName, count)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Writer, "Wrote %v serial(s) to %v\n", len(generated), fileName)

				if prefsDir != "" {
					if err := writeSyntheticPrefs(prefsDir, generated); err != nil {
						return err
					}
					fmt.Fprintf(app.Writer, "Wrote %v backupprefs payload(s) to %v\n", len(generated), prefsDir)
				}
				return nil
			},
		},
		{
			Name:     "archive-reports",
			Category: "Cleanup",
			Usage:    "Move finished reports into the archive directory",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "dir",
					Usage:       "Directory holding finished reports",
					Destination: &reportDir,
				},
				cli.StringFlag{
					Name:        "archive",
					Usage:       "Directory the reports are moved to",
					Destination: &archiveDir,
				},
			},
			Action: func(c *cli.Context) error {
				threshold := utils.GetEnvInt("ARCHIVE_THRESHOLD_HR", 24)
				moved, err := archiveReports(reportDir, archiveDir, threshold)
				if moved > 0 {
					fmt.Fprintf(app.Writer, "Archived %v report(s)\n", moved)
				}
				return err
			},
		},
		{
			Name:     "cleanup-archive",
			Category: "Cleanup",
			Usage:    "Remove reports that have aged out of the archive",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "archive",
					Usage:       "Archive directory to clean",
					Destination: &archiveDir,
				},
				cli.StringFlag{
					Name:        "threshold",
					Usage:       "How long reports should wait in archive before deletion, in hours",
					Destination: &threshold,
				},
			},
			Action: func(c *cli.Context) error {
				th, err := strconv.Atoi(threshold)
				if err != nil {
					return err
				}
				cutoff := time.Now().Add(-(time.Hour * time.Duration(th)))
				deleted, err := utils.DeleteExpiredFiles(archiveDir, cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Writer, "Removed %v archived report(s)\n", deleted)
				return nil
			},
		},
	}
	return app
}

func runAudit(console io.Writer, authorization, inputPath, outputPath string) error {
	t := monitoring.GetTimer()
	defer t.Close()

	ctx := monitoring.NewContext(context.Background(), t)
	ctx, endRun := monitoring.NewParent(ctx, "audit")
	defer endRun()

	auditor := &audit.Auditor{
		Client:  client.NewMySonicWallClient(authorization),
		Loader:  serials.NewLoader(inputPath),
		Saver:   report.NewSaver(outputPath),
		Console: console,
	}

	return auditor.Run(ctx, inputPath, outputPath)
}

// resolveAuthorization picks the value forwarded on the Authorization
// header: the --token flag wins, then BPA_API_TOKEN, then a prompt.
// Whatever is chosen is forwarded verbatim.
func resolveAuthorization(flagValue string, in io.Reader, out io.Writer) (string, error) {
	authorization := flagValue
	if authorization == "" {
		authorization = conf.GetEnv("BPA_API_TOKEN")
	}
	if authorization == "" {
		fmt.Fprint(out, "Authorization value (e.g. Bearer ...): ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", errors.Wrap(err, "could not read authorization value")
		}
		authorization = strings.TrimRight(line, "\r\n")
	}

	if authorization == "" {
		return "", errors.New(constants.MissingTokenErr)
	}
	if !strings.HasPrefix(authorization, "Bearer") {
		log.Warnf("Authorization value %s does not begin with \"Bearer\"; forwarding it unchanged",
			client.MaskAuthorization(authorization))
	}

	return authorization, nil
}

func writeSyntheticPrefs(dir string, generated []string) error {
	if err := os.MkdirAll(dir, 0744); err != nil {
		return errors.Wrapf(err, "could not create payload directory %s", dir)
	}

	for _, serial := range generated {
		path := fmt.Sprintf("%s/backupprefs-%s.json", dir, serial)
		if err := gen.WriteBackupPrefs(path, serial); err != nil {
			return err
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
