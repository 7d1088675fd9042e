// Smoke test for the audit pipeline. Starts a stub MySonicWall server
// with synthetic payloads, audits a generated serial list against it,
// and checks the finished report end to end. Run manually:
//
//	go run ./test/smoke_test -serials 50
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/bpa-app/bpa/audit"
	"github.com/fleetops/bpa-app/bpa/client"
	"github.com/fleetops/bpa-app/bpa/gen"
	"github.com/fleetops/bpa-app/bpa/report"
	"github.com/fleetops/bpa-app/bpa/serials"
	"github.com/fleetops/bpa-app/bpa/utils"
	"github.com/fleetops/bpa-app/conf"
)

var (
	serialCount int
	workDir     string
	keep        bool
)

func init() {
	flag.IntVar(&serialCount, "serials", 25, "how many synthetic serials to audit")
	flag.StringVar(&workDir, "dir", "", "working directory for the serial list and report; a temp dir when empty")
	flag.BoolVar(&keep, "keep", false, "keep the serial list and report after the run")
	flag.Parse()

	log.SetReportCaller(true)
}

func main() {
	if workDir == "" {
		dir, err := ioutil.TempDir("", "bpa-smoke-*")
		if err != nil {
			log.Fatalf("Failed to create working directory %s", err.Error())
		}
		workDir = dir
	}
	if !keep {
		defer os.RemoveAll(workDir)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("Failed to start stub server %s", err.Error())
	}
	go func() {
		if err := http.Serve(ln, gen.StubHandler()); err != nil {
			log.Warnf("Stub server stopped %s", err.Error())
		}
	}()
	defer ln.Close()

	if err := conf.SetEnv(&testing.T{}, "BPA_API_URL", "http://"+ln.Addr().String()); err != nil {
		log.Fatalf("Failed to point the audit at the stub server %s", err.Error())
	}

	listPath := filepath.Join(workDir, "serials.txt")
	generated, err := gen.GenerateSerialList(listPath, serialCount)
	if err != nil {
		log.Fatalf("Failed to generate serial list %s", err.Error())
	}

	outputPath := filepath.Join(workDir, "backupreport.csv")
	auditor := &audit.Auditor{
		Client:  client.NewMySonicWallClient("Bearer smoke-test-token"),
		Loader:  serials.NewLoader(listPath),
		Saver:   report.NewSaver(outputPath),
		Console: os.Stdout,
	}

	start := time.Now()
	if err := auditor.Run(context.Background(), listPath, outputPath); err != nil {
		log.Fatalf("Audit run failed %s", err.Error())
	}
	log.Infof("Audited %d serial(s) in %s", serialCount, time.Since(start))

	if err := validateReport(outputPath, generated); err != nil {
		log.Errorf("Report validation failed %s", err.Error())
		os.Exit(1)
	}
	log.Infof("Finished validating report %s", outputPath)
}

func validateReport(path string, generated []string) error {
	data, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return err
	}
	if len(rows) < len(generated)+1 {
		return fmt.Errorf("expected at least %d rows, got %d", len(generated)+1, len(rows))
	}

	reported := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if status := row[len(row)-1]; status != "YES" {
			return fmt.Errorf("unexpected status %q for serial %q", status, row[0])
		}
		reported = append(reported, row[0])
	}

	for _, serial := range generated {
		if !utils.ContainsString(reported, serial) {
			return fmt.Errorf("serial %s is missing from the report", serial)
		}
	}

	return nil
}
