package client

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/fleetops/bpa-app/bpa/models"
)

type MockMySonicWallClient struct {
	mock.Mock
}

func (m *MockMySonicWallClient) GetBackupPrefs(ctx context.Context, serial string) (*models.BackupPrefsResponse, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BackupPrefsResponse), args.Error(1)
}

// BackupPrefsFromTemplate parses payload after replacing the stand-in
// serial 0000TEMPLATE with the requested one. Keeps pipeline tests from
// hand-building nested responses.
func BackupPrefsFromTemplate(payload, serial string) (*models.BackupPrefsResponse, error) {
	cleaned := strings.Replace(payload, "0000TEMPLATE", serial, -1)

	var prefs models.BackupPrefsResponse
	if err := json.Unmarshal([]byte(cleaned), &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
