package log

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fleetops/bpa-app/bpa/constants"
	"github.com/fleetops/bpa-app/conf"
	"github.com/sirupsen/logrus"
)

var (
	// API carries the request/response log for MySonicWall calls.
	API logrus.FieldLogger
	// Audit carries the pipeline log: per-serial progress and errors.
	Audit logrus.FieldLogger
)

func init() {
	SetupLoggers()
}

// SetupLoggers (re)builds the package loggers from the current
// configuration. Tests call it after pointing the log destinations at
// temporary files.
func SetupLoggers() {
	API = Logger(logrus.New(), conf.GetEnv("BPA_API_LOG"),
		"api", conf.GetEnv("ENVIRONMENT"))
	Audit = Logger(logrus.New(), conf.GetEnv("BPA_ERROR_LOG"),
		"audit", conf.GetEnv("ENVIRONMENT"))
}

func Logger(logger *logrus.Logger, outputFile string,
	application, environment string) logrus.FieldLogger {

	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})

	if outputFile != "" {
		if file, err := os.OpenFile(filepath.Clean(outputFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640); err == nil {
			logger.SetOutput(file)
		} else {
			logger.Infof("Failed to open output file %s. Will use stderr. %s",
				outputFile, err.Error())
		}
	}

	return logger.WithFields(logrus.Fields{
		"application": application,
		"environment": environment,
		"version":     constants.Version})
}
