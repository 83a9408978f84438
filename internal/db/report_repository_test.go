package db

import (
	"testing"
	"time"

	"github.com/itsolution4india/webhook-develop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *ReportRepository {
	t.Helper()

	database, err := NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return NewReportRepository(database.GetDB())
}

func sampleRecord() *models.ReportRecord {
	return &models.ReportRecord{
		Date:               time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		DisplayPhoneNumber: "+15550001111",
		PhoneNumberID:      "123",
		WabaID:             "wamid.1",
		Status:             models.StatusReply,
		MessageTimestamp:   "1700000000",
		ContactWaID:        "919999999999",
		ContactName:        "Asha",
		MessageFrom:        "919999999999",
		MessageType:        models.MessageTypeText,
		MessageBody:        "hi",
	}
}

func TestUpsertInsertsNewRecord(t *testing.T) {
	repo := setupTestRepo(t)

	result, err := repo.Upsert(sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, ResultInserted, result)

	stored, err := repo.GetByKey("1700000000", "919999999999")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "hi", stored.MessageBody)
	assert.Equal(t, models.StatusReply, stored.Status)
}

func TestUpsertIsIdempotentPerKey(t *testing.T) {
	repo := setupTestRepo(t)

	first := sampleRecord()
	_, err := repo.Upsert(first)
	require.NoError(t, err)

	second := sampleRecord()
	second.MessageBody = "hello again"
	second.Status = models.StatusDelivered

	result, err := repo.Upsert(second)
	require.NoError(t, err)
	assert.Equal(t, ResultUpdated, result)

	// Exactly one row, reflecting the second record.
	reports, err := repo.ListReports(10, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "hello again", reports[0].MessageBody)
	assert.Equal(t, models.StatusDelivered, reports[0].Status)
}

func TestUpsertKeepsKeyFieldsImmutable(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Upsert(sampleRecord())
	require.NoError(t, err)

	update := sampleRecord()
	update.ContactName = "Asha Devi"
	_, err = repo.Upsert(update)
	require.NoError(t, err)

	stored, err := repo.GetByKey("1700000000", "919999999999")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "1700000000", stored.MessageTimestamp)
	assert.Equal(t, "919999999999", stored.ContactWaID)
	assert.Equal(t, "Asha Devi", stored.ContactName)
}

func TestUpsertDistinctKeysProduceDistinctRows(t *testing.T) {
	repo := setupTestRepo(t)

	first := sampleRecord()
	_, err := repo.Upsert(first)
	require.NoError(t, err)

	second := sampleRecord()
	second.MessageTimestamp = "1700000099"

	result, err := repo.Upsert(second)
	require.NoError(t, err)
	assert.Equal(t, ResultInserted, result)

	reports, err := repo.ListReports(10, 0)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestUpsertNilRecord(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Upsert(nil)
	require.Error(t, err)

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestUpsertOnClosedDatabase(t *testing.T) {
	database, err := NewDatabase(":memory:")
	require.NoError(t, err)

	repo := NewReportRepository(database.GetDB())
	require.NoError(t, database.Close())

	_, err = repo.Upsert(sampleRecord())
	require.Error(t, err)

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "lookup", storageErr.Op)
}

func TestGetByKeyMissingRow(t *testing.T) {
	repo := setupTestRepo(t)

	stored, err := repo.GetByKey("nope", "nobody")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestListReportsPagination(t *testing.T) {
	repo := setupTestRepo(t)

	for i := 0; i < 5; i++ {
		rec := sampleRecord()
		rec.MessageTimestamp = rec.MessageTimestamp + string(rune('a'+i))
		rec.Date = rec.Date.Add(time.Duration(i) * time.Minute)
		_, err := repo.Upsert(rec)
		require.NoError(t, err)
	}

	page, err := repo.ListReports(2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	// Newest first.
	assert.True(t, page[0].Date.After(page[1].Date))

	rest, err := repo.ListReports(10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

func TestNewDatabaseValidation(t *testing.T) {
	database, err := NewDatabase("")
	assert.Error(t, err)
	assert.Nil(t, database)
}
