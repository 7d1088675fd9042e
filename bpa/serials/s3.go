package serials

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	bpaaws "github.com/fleetops/bpa-app/bpa/aws"
	"github.com/fleetops/bpa-app/bpa/constants"
)

// S3Loader downloads the serial list object into memory and scans it
// the same way the local loader does.
type S3Loader struct {
	Logger        logrus.FieldLogger
	Endpoint      string
	AssumeRoleArn string
}

func (l *S3Loader) LoadSerials(ctx context.Context, path string) ([]string, error) {
	l.Logger.Infof("Opening serial list %s", path)
	bucket, key := bpaaws.ParseS3Uri(path)

	sess, err := bpaaws.NewSession(l.AssumeRoleArn, l.Endpoint)
	if err != nil {
		l.Logger.Errorf("Failed to create S3 session: %s", err)
		return nil, errors.Wrapf(err, constants.SerialFileErr, path)
	}

	downloader := s3manager.NewDownloader(sess)
	buff := &aws.WriteAtBuffer{}
	numBytes, err := downloader.DownloadWithContext(ctx, buff, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.Logger.Errorf("Failed to download bucket %s, key %s", bucket, key)
		return nil, errors.Wrapf(err, constants.SerialFileErr, path)
	}

	l.Logger.Infof("serial list downloaded: size=%d", numBytes)

	return scanSerials(bytes.NewReader(buff.Bytes()))
}
