package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fleetops/bpa-app/bpa/constants"
	"github.com/fleetops/bpa-app/bpa/utils"
	"github.com/fleetops/bpa-app/conf"
	"github.com/fleetops/bpa-app/log"

	bpaaws "github.com/fleetops/bpa-app/bpa/aws"
)

// Saver persists a rendered report document to its destination.
type Saver interface {
	SaveReport(ctx context.Context, path string, document []byte) error
}

// NewSaver picks the saver matching the destination path. S3 URIs get
// the uploader; anything else is treated as a local file path.
func NewSaver(path string) Saver {
	if bpaaws.IsS3Path(path) {
		return &S3Saver{
			Logger:        log.Audit,
			Endpoint:      conf.GetEnv("BPA_S3_ENDPOINT"),
			AssumeRoleArn: conf.GetEnv("BPA_S3_ASSUME_ROLE_ARN"),
		}
	}

	return &LocalSaver{Logger: log.Audit}
}

// LocalSaver writes the report to the local filesystem, replacing any
// previous report at the same path.
type LocalSaver struct {
	Logger logrus.FieldLogger
}

func (s *LocalSaver) SaveReport(ctx context.Context, path string, document []byte) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		err = errors.Wrapf(err, constants.ReportSaveErr, path)
		s.Logger.Error(err)
		return err
	}
	defer utils.CloseFileAndLogError(f)

	if _, err = f.Write(document); err != nil {
		err = errors.Wrapf(err, constants.ReportSaveErr, path)
		s.Logger.Error(err)
		return err
	}

	s.Logger.WithFields(logrus.Fields{"path": path, "bytes": len(document)}).Info("report saved")
	return nil
}
