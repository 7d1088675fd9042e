package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fleetops/bpa-app/bpa/constants"
	"github.com/fleetops/bpa-app/bpa/models"
	"github.com/fleetops/bpa-app/bpa/utils"
	"github.com/fleetops/bpa-app/conf"
	"github.com/fleetops/bpa-app/log"
)

type APIClient interface {
	GetBackupPrefs(ctx context.Context, serial string) (*models.BackupPrefsResponse, error)
}

// FetchError ties a fetch failure to the serial that triggered it. The
// audit loop records it as an outcome and keeps going; it never aborts
// a run.
type FetchError struct {
	Serial string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for serial %q: %s", e.Serial, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type MySonicWallClient struct {
	httpClient    http.Client
	baseURL       string
	authorization string
}

// Ensure MySonicWallClient satisfies the interface
var _ APIClient = &MySonicWallClient{}

// NewMySonicWallClient builds a client around the caller-supplied
// authorization value. The value is sent verbatim on every request and
// is expected to already carry its scheme word (e.g. "Bearer ...").
func NewMySonicWallClient(authorization string) *MySonicWallClient {
	baseURL := conf.GetEnv("BPA_API_URL")
	if baseURL == "" {
		baseURL = constants.DefaultAPIBaseURL
	}

	timeout := utils.GetEnvInt("BPA_API_TIMEOUT_MS", 30000)

	return &MySonicWallClient{
		httpClient:    http.Client{Timeout: time.Duration(timeout) * time.Millisecond},
		baseURL:       baseURL,
		authorization: authorization,
	}
}

// GetBackupPrefs performs a single GET for the serial's backup
// preference data. Network failures, non-2xx statuses, timeouts, and
// unparseable bodies all come back as a *FetchError.
func (c *MySonicWallClient) GetBackupPrefs(ctx context.Context, serial string) (*models.BackupPrefsResponse, error) {
	reqID := uuid.NewRandom()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+constants.BackupPrefsPath, nil)
	if err != nil {
		return nil, &FetchError{Serial: serial, Err: err}
	}

	params := url.Values{}
	params.Set("serial", serial)
	req.URL.RawQuery = params.Encode()

	c.addRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	logRequest(req, resp, reqID)
	if resp != nil {
		/* #nosec -- it's OK for us to ignore errors when cleaning up the response body */
		defer func() {
			_, _ = io.Copy(ioutil.Discard, resp.Body)
			resp.Body.Close()
		}()
	}
	if err != nil {
		return nil, &FetchError{Serial: serial, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Read the body in case it offers valuable troubleshooting info
		body, _ := ioutil.ReadAll(resp.Body)
		return nil, &FetchError{Serial: serial,
			Err: fmt.Errorf(constants.RespCodeErr, req.URL.Path, resp.StatusCode, string(body))}
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Serial: serial, Err: fmt.Errorf(constants.RespBodyErr, err)}
	}

	var prefs models.BackupPrefsResponse
	if err := json.Unmarshal(body, &prefs); err != nil {
		return nil, &FetchError{Serial: serial, Err: errors.Wrap(err, "malformed backupprefs payload")}
	}

	return &prefs, nil
}

func (c *MySonicWallClient) addRequestHeaders(req *http.Request) {
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", c.authorization)
}

func logRequest(req *http.Request, resp *http.Response, reqID uuid.UUID) {
	log.API.WithFields(logrus.Fields{
		"msw_query_id":  reqID.String(),
		"msw_uri":       req.URL.String(),
		"authorization": MaskAuthorization(req.Header.Get("Authorization")),
	}).Infoln("MySonicWall request")

	if resp != nil {
		log.API.WithFields(logrus.Fields{
			"msw_query_id":   reqID.String(),
			"resp_code":      resp.StatusCode,
			"content_length": resp.ContentLength,
		}).Infoln("MySonicWall response")
	}
}

// MaskAuthorization truncates the credential so output shows which
// token was in play without recording the whole value.
func MaskAuthorization(value string) string {
	const keep = 14 // the scheme word plus a few token bytes
	if len(value) <= keep {
		return value
	}
	return value[:keep] + "..."
}
