package sheets

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Veraticus/prdash/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "valid oauth config",
			config: Config{
				ClientID:      "client",
				ClientSecret:  "secret",
				RefreshToken:  "token",
				BatchSize:     100,
				RetryAttempts: 3,
				RetryDelay:    time.Second,
			},
		},
		{
			name:   "valid service account config",
			config: Config{ServiceAccountPath: "/path/to/key.json", BatchSize: 100},
		},
		{
			name:    "missing auth",
			config:  Config{BatchSize: 100},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "multiple auth methods",
			config: Config{
				ClientID:           "client",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
			},
			wantErr: true,
			errMsg:  "multiple authentication methods configured",
		},
		{
			name:    "invalid batch size",
			config:  Config{ServiceAccountPath: "/k.json"},
			wantErr: true,
			errMsg:  "batch size must be positive",
		},
		{
			name:    "negative retries",
			config:  Config{ServiceAccountPath: "/k.json", BatchSize: 1, RetryAttempts: -1},
			wantErr: true,
			errMsg:  "retry attempts cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/env/key.json")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "Quarterly")
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-client")

	cfg := DefaultConfig()
	cfg.ClientID = "explicit"
	cfg.LoadFromEnv()

	assert.Equal(t, "/env/key.json", cfg.ServiceAccountPath)
	assert.Equal(t, "Quarterly", cfg.SpreadsheetName)
	assert.Equal(t, "explicit", cfg.ClientID, "set values win over the environment")
}

func TestReportValues(t *testing.T) {
	report := Report{
		Title:    "Negotiations",
		Subtitle: "2024",
		Headers:  []string{"ID", "Amount"},
		Rows:     [][]any{{1, 10.5}, {2, 20.0}},
	}

	values := report.values()
	require.Len(t, values, headerRows+2)
	assert.Equal(t, []any{"Negotiations"}, values[0])
	assert.Equal(t, []any{"ID", "Amount"}, values[3])
	assert.Equal(t, []any{2, 20.0}, values[5])
}

func TestBatches(t *testing.T) {
	assert.Equal(t, []span{{0, 2}, {2, 4}, {4, 5}}, batches(5, 2))
	assert.Equal(t, []span{{0, 3}}, batches(3, 0))
	assert.Empty(t, batches(0, 10))
}

func TestFormattingRequests(t *testing.T) {
	report := Report{Headers: []string{"a", "b", "c"}, Rows: make([][]any, 3), CurrencyColumns: []int{1, 2}}

	requests := formattingRequests(report)
	// title, header, two currency columns, resize, freeze
	require.Len(t, requests, 6)
	currency := requests[2].RepeatCell
	require.NotNil(t, currency)
	assert.Equal(t, int64(headerRows), currency.Range.StartRowIndex)
	assert.Equal(t, int64(headerRows+3), currency.Range.EndRowIndex)
	assert.Equal(t, int64(headerRows), requests[5].UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)
}

func TestClassifyAPIError(t *testing.T) {
	assert.NoError(t, classifyAPIError(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, classifyAPIError(plain))

	limited := classifyAPIError(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.ErrorIs(t, limited, common.ErrRateLimit)

	var retryable *common.RetryableError
	require.ErrorAs(t, classifyAPIError(&googleapi.Error{Code: http.StatusForbidden}), &retryable)
	assert.False(t, retryable.Retryable)

	server := &googleapi.Error{Code: http.StatusBadGateway}
	assert.Equal(t, error(server), classifyAPIError(server))
}

func TestMockWriter(t *testing.T) {
	m := NewMockWriter("sheet-1")
	id, err := m.Write(context.Background(), Report{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "sheet-1", id)
	assert.Len(t, m.Calls(), 1)
}
