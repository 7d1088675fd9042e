package bpaaws

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
)

const s3Region = "us-east-1"

// Makes this easily mockable for testing
var newSession = session.NewSession

// NewSession returns an AWS session using the given roleArn. A
// non-empty endpoint switches on path-style addressing so localstack
// works in tests and local runs.
func NewSession(roleArn, endpoint string) (*session.Session, error) {
	sess := session.Must(session.NewSession())

	config := aws.Config{
		Region: aws.String(s3Region),
	}

	if endpoint != "" {
		config.S3ForcePathStyle = aws.Bool(true)
		config.Endpoint = &endpoint
	}

	if roleArn != "" {
		config.Credentials = stscreds.NewCredentials(
			sess,
			roleArn,
		)
	}

	return newSession(&config)
}

// ParseS3Uri returns the bucket and key of an S3 URI.
//
// @example:
//
//	input: s3://my-bucket/path/to/file
//	output: "my-bucket", "path/to/file"
func ParseS3Uri(str string) (bucket string, key string) {
	workingString := strings.TrimPrefix(str, "s3://")
	resultArr := strings.SplitN(workingString, "/", 2)

	if len(resultArr) == 1 {
		return resultArr[0], ""
	}

	return resultArr[0], resultArr[1]
}

// IsS3Path reports whether path names an S3 object rather than a local
// file.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}
