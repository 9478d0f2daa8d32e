// Package gsheetapi реализует табличное хранилище поверх Google Sheets API
package gsheetapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	grid "github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([^/]+)`)

// Client клиент для работы с Google Sheets API
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewClient создает новый клиент для Google Sheets API.
// Если credentialsFile пуст, используются учетные данные по умолчанию (ADC).
// spreadsheetRef может быть как ID таблицы, так и ее URL.
func NewClient(ctx context.Context, credentialsFile, spreadsheetRef string, timeout time.Duration) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Google Sheets API: %w", err)
	}
	return NewClientWithService(service, spreadsheetRef, timeout), nil
}

// NewClientWithService создает клиент поверх готового sheets.Service
func NewClientWithService(service *sheets.Service, spreadsheetRef string, timeout time.Duration) *Client {
	return &Client{
		service:       service,
		spreadsheetID: ExtractSpreadsheetID(spreadsheetRef),
		timeout:       timeout,
	}
}

// SpreadsheetID возвращает ID таблицы
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// ListTables возвращает названия листов таблицы
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка листов: %w", err)
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			names = append(names, sheet.Properties.Title)
		}
	}
	return names, nil
}

// ReadRows возвращает все строки листа. Значения ячеек приводятся к строкам.
func (c *Client) ReadRows(ctx context.Context, table string) ([][]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, quoteRange(table)).
		Context(ctx).
		Do()
	if err != nil {
		if isUnknownRange(err) {
			return nil, fmt.Errorf("%w: %s", grid.ErrTableNotFound, table)
		}
		return nil, fmt.Errorf("ошибка получения данных листа %s: %w", table, err)
	}

	records := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		record := make([]string, 0, len(row))
		for _, cell := range row {
			if cellStr, ok := cell.(string); ok {
				record = append(record, cellStr)
			} else {
				record = append(record, fmt.Sprintf("%v", cell))
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// AppendRow добавляет строку в конец листа.
// Значения записываются как есть (RAW), чтобы метки времени не превращались в даты локали.
func (c *Client) AppendRow(ctx context.Context, table string, row []interface{}) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, quoteRange(table), &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		if isUnknownRange(err) {
			return fmt.Errorf("%w: %s", grid.ErrTableNotFound, table)
		}
		return fmt.Errorf("ошибка добавления строки в лист %s: %w", table, err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ExtractSpreadsheetID извлекает ID таблицы из URL; строка без URL считается ID
func ExtractSpreadsheetID(ref string) string {
	ref = strings.TrimSpace(ref)
	if idx := strings.Index(ref, "?"); idx != -1 {
		ref = ref[:idx]
	}
	if matches := spreadsheetIDPattern.FindStringSubmatch(ref); len(matches) > 1 {
		return matches[1]
	}
	return ref
}

// quoteRange превращает имя листа в A1 диапазон, охватывающий весь лист
func quoteRange(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}

func isUnknownRange(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}

var _ grid.Store = (*Client)(nil)
