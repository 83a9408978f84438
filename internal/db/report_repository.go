package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/itsolution4india/webhook-develop/internal/models"
)

// UpsertResult tells the caller which path the upsert took. The insert
// path is what gates downstream forwarding.
type UpsertResult int

const (
	ResultInserted UpsertResult = iota
	ResultUpdated
)

func (r UpsertResult) String() string {
	if r == ResultInserted {
		return "inserted"
	}
	return "updated"
}

// StorageError wraps connection and query failures so the request path
// can recognize them, log them and keep going.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ReportRepository persists ReportRecords keyed by
// (message_timestamp, contact_wa_id).
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Upsert inserts the record, or updates the existing row sharing its
// natural key. The write itself is a single conflict-resolving
// statement; the preceding existence check only decides the reported
// result and can never cause a duplicate row.
func (r *ReportRepository) Upsert(rec *models.ReportRecord) (UpsertResult, error) {
	if rec == nil {
		return ResultUpdated, &StorageError{Op: "upsert", Err: errors.New("record cannot be nil")}
	}

	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM reports WHERE message_timestamp = ? AND contact_wa_id = ?)",
		rec.MessageTimestamp, rec.ContactWaID,
	).Scan(&exists)
	if err != nil {
		return ResultUpdated, &StorageError{Op: "lookup", Err: err}
	}

	// Key fields are immutable: the conflict clause updates every
	// column except message_timestamp and contact_wa_id.
	_, err = r.db.Exec(`
		INSERT INTO reports (
			date, display_phone_number, phone_number_id,
			message_template_id, message_template_name,
			waba_id, status, message_timestamp, contact_wa_id, contact_name,
			error_code, error_title, error_message, error_data,
			message_from, message_type, message_body
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (message_timestamp, contact_wa_id) DO UPDATE SET
			date = excluded.date,
			display_phone_number = excluded.display_phone_number,
			phone_number_id = excluded.phone_number_id,
			message_template_id = excluded.message_template_id,
			message_template_name = excluded.message_template_name,
			waba_id = excluded.waba_id,
			status = excluded.status,
			contact_name = excluded.contact_name,
			error_code = excluded.error_code,
			error_title = excluded.error_title,
			error_message = excluded.error_message,
			error_data = excluded.error_data,
			message_from = excluded.message_from,
			message_type = excluded.message_type,
			message_body = excluded.message_body`,
		rec.Date.UTC().Format(time.RFC3339),
		rec.DisplayPhoneNumber, rec.PhoneNumberID,
		rec.MessageTemplateID, rec.MessageTemplateName,
		rec.WabaID, rec.Status, rec.MessageTimestamp, rec.ContactWaID, rec.ContactName,
		rec.ErrorCode, rec.ErrorTitle, rec.ErrorMessage, rec.ErrorData,
		rec.MessageFrom, rec.MessageType, rec.MessageBody,
	)
	if err != nil {
		return ResultUpdated, &StorageError{Op: "upsert", Err: err}
	}

	if exists {
		return ResultUpdated, nil
	}
	return ResultInserted, nil
}

// GetByKey fetches the persisted row for a natural key, or nil when no
// row exists.
func (r *ReportRepository) GetByKey(messageTimestamp, contactWaID string) (*models.ReportRecord, error) {
	row := r.db.QueryRow(
		selectColumns+" FROM reports WHERE message_timestamp = ? AND contact_wa_id = ?",
		messageTimestamp, contactWaID,
	)

	rec, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	return rec, nil
}

// ListReports returns persisted reports newest first with pagination.
func (r *ReportRepository) ListReports(limit, offset int) ([]*models.ReportRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(
		selectColumns+" FROM reports ORDER BY date DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	var reports []*models.ReportRecord
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		reports = append(reports, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	return reports, nil
}

const selectColumns = `SELECT id, date, display_phone_number, phone_number_id,
	message_template_id, message_template_name,
	waba_id, status, message_timestamp, contact_wa_id, contact_name,
	error_code, error_title, error_message, error_data,
	message_from, message_type, message_body`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*models.ReportRecord, error) {
	rec := &models.ReportRecord{}
	var date string
	err := row.Scan(
		&rec.ID, &date, &rec.DisplayPhoneNumber, &rec.PhoneNumberID,
		&rec.MessageTemplateID, &rec.MessageTemplateName,
		&rec.WabaID, &rec.Status, &rec.MessageTimestamp, &rec.ContactWaID, &rec.ContactName,
		&rec.ErrorCode, &rec.ErrorTitle, &rec.ErrorMessage, &rec.ErrorData,
		&rec.MessageFrom, &rec.MessageType, &rec.MessageBody,
	)
	if err != nil {
		return nil, err
	}

	if parsed, perr := time.Parse(time.RFC3339, date); perr == nil {
		rec.Date = parsed
	}
	return rec, nil
}
