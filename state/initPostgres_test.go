package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitPostgres_InvalidDSN(t *testing.T) {
	invalidDSN := "invalid-dsn-format"

	db, sqlDB, err := InitPostgres(invalidDSN)

	assert.Error(t, err, "InitPostgres should return error with invalid DSN")
	assert.Nil(t, db, "GORM DB should be nil on error")
	assert.Nil(t, sqlDB, "SQL DB should be nil on error")
}

func TestInitPostgres_DatabaseConnectionFailure(t *testing.T) {
	nonExistentDSN := "host=nonexistent-host user=test password=test dbname=test port=5432 sslmode=disable"

	db, sqlDB, err := InitPostgres(nonExistentDSN)

	assert.Error(t, err, "InitPostgres should return error when database is unreachable")
	assert.Nil(t, db, "GORM DB should be nil on error")
	assert.Nil(t, sqlDB, "SQL DB should be nil on error")

	assert.Contains(t, err.Error(), "failed to connect")
}
