package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpchat/config"
)

func TestRun_KeepsColumnOrderAndFormatsValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("SELECT zeta, alpha, total, created FROM t").
		WillReturnRows(sqlmock.NewRows([]string{"zeta", "alpha", "total", "created"}).
			AddRow(int64(1), nil, []byte("12.50"), created))

	svc := NewSQLServerServiceWithDB(db)
	res, err := svc.Run(context.Background(), "SELECT zeta, alpha, total, created FROM t")
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "total", "created"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []interface{}{"1", nil, "12.50", "2025-01-02T03:04:05Z"}, res.Rows[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT bad").WillReturnError(errors.New("Invalid column name 'bad'"))

	_, err = NewSQLServerServiceWithDB(db).Run(context.Background(), "SELECT bad")
	assert.EqualError(t, err, "Invalid column name 'bad'")
}

func TestRun_NotConnected(t *testing.T) {
	_, err := (&SQLServerService{}).Run(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestBuildConnectionString(t *testing.T) {
	assert.Equal(t,
		"server=db;port=1433;database=erp;user id=sa;password=pw;encrypt=true;TrustServerCertificate=true",
		buildConnectionString(config.SQLServerConfig{Server: "db", Port: "1433", Database: "erp", UserID: "sa", Password: "pw", Encrypt: true}))
	assert.Equal(t,
		"server=db;port=1433;database=erp;trusted_connection=true;encrypt=false",
		buildConnectionString(config.SQLServerConfig{Server: "db", Port: "1433", Database: "erp"}))
}
