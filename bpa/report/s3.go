package report

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fleetops/bpa-app/bpa/constants"

	bpaaws "github.com/fleetops/bpa-app/bpa/aws"
)

// S3Saver uploads the report document to an S3 bucket.
type S3Saver struct {
	Logger        logrus.FieldLogger
	Endpoint      string
	AssumeRoleArn string
}

func (s *S3Saver) SaveReport(ctx context.Context, path string, document []byte) error {
	bucket, key := bpaaws.ParseS3Uri(path)

	sess, err := bpaaws.NewSession(s.AssumeRoleArn, s.Endpoint)
	if err != nil {
		return errors.Wrapf(err, constants.ReportSaveErr, path)
	}

	uploader := s3manager.NewUploader(sess)
	result, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(document),
	})
	if err != nil {
		s.Logger.Errorf("Failed to upload to bucket %s with key %s", bucket, key)
		return errors.Wrapf(err, constants.ReportSaveErr, path)
	}

	s.Logger.WithFields(logrus.Fields{"location": result.Location, "bytes": len(document)}).Info("report uploaded")
	return nil
}
