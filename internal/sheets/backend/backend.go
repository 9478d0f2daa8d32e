// Package backend выбирает реализацию табличного хранилища по конфигурации
package backend

import (
	"context"
	"fmt"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/config"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets/csvdir"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets/gsheetapi"
)

// Open открывает хранилище. Для gsheetapi без spreadsheet_id возвращается
// sheets.Unconfigured: сервис стартует, но все операции завершаются ошибкой
// конфигурации.
func Open(ctx context.Context, cfg config.SheetsConfig) (sheets.Store, error) {
	switch cfg.Backend {
	case "csvdir":
		store, err := csvdir.New(cfg.CSVDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open csv directory: %w", err)
		}
		return store, nil
	case "gsheetapi", "":
		if cfg.SpreadsheetID == "" {
			return sheets.Unconfigured{}, nil
		}
		client, err := gsheetapi.NewClient(ctx, cfg.CredentialsFile, cfg.SpreadsheetID, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown sheets backend %q", cfg.Backend)
}
