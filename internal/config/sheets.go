package config

import (
	"github.com/Veraticus/prdash/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration. Values under
// export.sheets win; GOOGLE_SHEETS_* variables fill what is left.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(v.GetString("export.sheets.service_account_path"))
	cfg.ClientID = v.GetString("export.sheets.client_id")
	cfg.ClientSecret = v.GetString("export.sheets.client_secret")
	cfg.RefreshToken = v.GetString("export.sheets.refresh_token")
	cfg.SpreadsheetID = v.GetString("export.sheets.spreadsheet_id")
	if name := v.GetString("export.sheets.spreadsheet_name"); name != "" {
		cfg.SpreadsheetName = name
	}
	if tz := v.GetString("export.sheets.time_zone"); tz != "" {
		cfg.TimeZone = tz
	}

	cfg.LoadFromEnv()
	cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
