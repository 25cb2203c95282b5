package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/sirupsen/logrus"

	"erpchat/config"
	"erpchat/models"
)

// ErrNotConnected is returned when no SQL Server connection is configured.
var ErrNotConnected = errors.New("SQL Server connection is not initialized")

type SQLServerService struct {
	db *sql.DB
}

func NewSQLServerService(ctx context.Context, cfg config.SQLServerConfig, logger *logrus.Entry) (*SQLServerService, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("SQL Server configuration is incomplete")
	}

	db, err := sql.Open("sqlserver", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL Server connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		// Start anyway; the server may come up later.
		logger.WithError(err).Warn("failed to ping SQL Server during initialization")
	}

	return &SQLServerService{db: db}, nil
}

// NewSQLServerServiceWithDB wraps an already opened connection pool.
func NewSQLServerServiceWithDB(db *sql.DB) *SQLServerService {
	return &SQLServerService{db: db}
}

func buildConnectionString(cfg config.SQLServerConfig) string {
	connStr := fmt.Sprintf("server=%s;port=%s;database=%s",
		cfg.Server, cfg.Port, cfg.Database)

	if cfg.UserID != "" {
		connStr += fmt.Sprintf(";user id=%s;password=%s", cfg.UserID, cfg.Password)
	} else {
		connStr += ";trusted_connection=true"
	}

	if cfg.Encrypt {
		connStr += ";encrypt=true;TrustServerCertificate=true"
	} else {
		connStr += ";encrypt=false"
	}

	return connStr
}

func (s *SQLServerService) DB() *sql.DB {
	return s.db
}

func (s *SQLServerService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Run executes query and returns its rows in column order. Non-null values are
// rendered as strings.
func (s *SQLServerService) Run(ctx context.Context, query string) (*models.QueryResult, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	resultRows := [][]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make([]interface{}, len(columns))
		for i, val := range values {
			row[i] = formatValue(val)
		}
		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.QueryResult{
		Columns: columns,
		Rows:    resultRows,
	}, nil
}

func formatValue(val interface{}) interface{} {
	switch v := val.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (s *SQLServerService) IsConnected(ctx context.Context) bool {
	if s.db == nil {
		return false
	}
	return s.db.PingContext(ctx) == nil
}
