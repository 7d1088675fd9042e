// Package serials loads the device identifier list that drives an
// audit run. One identifier per line; the text of each line is the
// identifier, verbatim. Lists come from a local file or an S3 object.
package serials

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	bpaaws "github.com/fleetops/bpa-app/bpa/aws"
	"github.com/fleetops/bpa-app/bpa/constants"
	"github.com/fleetops/bpa-app/bpa/utils"
	"github.com/fleetops/bpa-app/conf"
	"github.com/fleetops/bpa-app/log"
)

type Loader interface {
	LoadSerials(ctx context.Context, path string) ([]string, error)
}

// NewLoader picks the implementation matching the path scheme.
func NewLoader(path string) Loader {
	if bpaaws.IsS3Path(path) {
		return &S3Loader{
			Logger:        log.Audit,
			Endpoint:      conf.GetEnv("BPA_S3_ENDPOINT"),
			AssumeRoleArn: conf.GetEnv("BPA_S3_ASSUME_ROLE_ARN"),
		}
	}
	return &LocalLoader{Logger: log.Audit}
}

// LocalLoader reads serial lists from the local filesystem.
type LocalLoader struct {
	Logger logrus.FieldLogger
}

func (l *LocalLoader) LoadSerials(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		err = errors.Wrapf(err, constants.SerialFileErr, path)
		l.Logger.Error(err)
		return nil, err
	}
	defer utils.CloseFileAndLogError(f)

	return scanSerials(f)
}

// scanSerials reads one serial per line. A leading UTF byte order mark
// is skipped so Windows-exported lists do not corrupt the first serial.
// Line terminators (LF or CRLF) are stripped; everything else on the
// line, including leading zeros, is kept as-is. Blank lines stay in the
// list and flow through the audit like any other identifier.
func scanSerials(r io.Reader) ([]string, error) {
	var list []string
	sc := bufio.NewScanner(utfbom.SkipOnly(r))
	for sc.Scan() {
		list = append(list, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "error scanning serial list")
	}
	return list, nil
}
