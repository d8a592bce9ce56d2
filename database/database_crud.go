package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/donnyhardyanto/dxdata/database/protected/db"
	"github.com/donnyhardyanto/dxdata/database/protected/dbtx"
	"github.com/donnyhardyanto/dxdata/log"
	"github.com/donnyhardyanto/dxdata/utils"
)

// Guard violations are rejected before any SQL is built, so an unbounded
// update/delete can never reach the data store.
var (
	ErrEmptyData            = errors.New("GUARD_VIOLATION:EMPTY_DATA")
	ErrEmptyWhereConditions = errors.New("GUARD_VIOLATION:EMPTY_WHERE_CONDITIONS")
	ErrFieldCipherNotSet    = errors.New("FIELD_CIPHER_NOT_CONFIGURED")
)

type DXWriteOptions struct {
	FieldsToEncrypt []string
	UseTransaction  bool
	RowIdFieldName  string // defaults to "id"
}

type DXReadOptions struct {
	FieldNames      []string
	Conditions      utils.JSON
	OrderBy         map[string]string
	Limit           int64
	FieldsToDecrypt []string
}

type DXDeleteOptions struct {
	FieldsToEncrypt  []string
	UseTransaction   bool
	UseOrConditions  bool
	SuppressAuditLog bool
}

// run executes callback against the shared connection, or inside a
// transaction that is committed on success and rolled back on every failure
// path before the operation result is constructed.
func (d *DXDatabase) run(useTransaction bool, callback func(e db.Executor) error) error {
	if useTransaction {
		return dbtx.Tx(&log.Log, d.Connection, sql.LevelReadCommitted, func(tx *sqlx.Tx) error {
			return callback(tx)
		})
	}
	return callback(d.Connection)
}

func (d *DXDatabase) encryptFields(data utils.JSON, fieldsToEncrypt []string) (utils.JSON, error) {
	if len(fieldsToEncrypt) == 0 {
		return data, nil
	}
	if d.FieldCipher == nil {
		return nil, ErrFieldCipherNotSet
	}
	return d.FieldCipher.EncryptFields(data, fieldsToEncrypt)
}

// Create inserts one row. Every value is normalized, then encrypted when the
// column is listed in FieldsToEncrypt, then bound under its column name.
func (d *DXDatabase) Create(tableName string, data utils.JSON, options *DXWriteOptions) *DXOperationResult {
	if options == nil {
		options = &DXWriteOptions{}
	}
	if len(data) == 0 {
		return NewOperationResultFailed(ErrEmptyData)
	}
	rowIdFieldName := options.RowIdFieldName
	if rowIdFieldName == "" {
		rowIdFieldName = "id"
	}
	data, err := d.encryptFields(NormalizeValues(data), options.FieldsToEncrypt)
	if err != nil {
		return NewOperationResultFailed(err)
	}
	r := NewOperationResultSuccess()
	err = d.run(options.UseTransaction, func(e db.Executor) error {
		id, rowCount, err := db.Insert(e, tableName, rowIdFieldName, data)
		if err != nil {
			return err
		}
		r.LastInsertId = id
		r.RowCount = rowCount
		return nil
	})
	if err != nil {
		return NewOperationResultFailed(err)
	}
	return r
}

// Read fetches rows. Projection, conditions, order by and limit are each
// optional and independently omitted from the statement when absent. Columns
// listed in FieldsToDecrypt are decrypted after the fetch; a decryption
// failure fails the whole read.
func (d *DXDatabase) Read(tableName string, options *DXReadOptions) *DXOperationResult {
	if options == nil {
		options = &DXReadOptions{}
	}
	conditions := NormalizeValues(options.Conditions)
	_, rows, err := db.Select(d.Connection, tableName, options.FieldNames, conditions, options.OrderBy, options.Limit)
	if err != nil {
		return NewOperationResultFailed(err)
	}
	if len(options.FieldsToDecrypt) > 0 {
		if d.FieldCipher == nil {
			return NewOperationResultFailed(ErrFieldCipherNotSet)
		}
		err = d.FieldCipher.DecryptFields(rows, options.FieldsToDecrypt)
		if err != nil {
			return NewOperationResultFailed(err)
		}
	}
	r := NewOperationResultSuccess()
	r.Rows = rows
	r.RowCount = int64(len(rows))
	return r
}

// ReadOne fetches at most one matching row. A missing row is the distinct
// not-found outcome, not an error. Decryption follows the same rules as Read.
func (d *DXDatabase) ReadOne(tableName string, options *DXReadOptions) *DXOperationResult {
	if options == nil {
		options = &DXReadOptions{}
	}
	conditions := NormalizeValues(options.Conditions)
	_, row, err := db.SelectOne(d.Connection, tableName, options.FieldNames, conditions, options.OrderBy)
	if err != nil {
		return NewOperationResultFailed(err)
	}
	if row == nil {
		return NewOperationResultNotFound(fmt.Sprintf("No matching row found in %s", tableName))
	}
	if len(options.FieldsToDecrypt) > 0 {
		if d.FieldCipher == nil {
			return NewOperationResultFailed(ErrFieldCipherNotSet)
		}
		err = d.FieldCipher.DecryptFields([]utils.JSON{row}, options.FieldsToDecrypt)
		if err != nil {
			return NewOperationResultFailed(err)
		}
	}
	r := NewOperationResultSuccess()
	r.Rows = []utils.JSON{row}
	r.RowCount = 1
	return r
}

// Update modifies the rows matching conditions. An empty condition mapping is
// rejected outright, never silently applied to every row. SET values are
// bound under NEW_-prefixed names, so data and condition maps may share a
// column without colliding.
func (d *DXDatabase) Update(tableName string, data utils.JSON, conditions utils.JSON, options *DXWriteOptions) *DXOperationResult {
	if options == nil {
		options = &DXWriteOptions{}
	}
	if len(data) == 0 {
		return NewOperationResultFailed(ErrEmptyData)
	}
	if len(conditions) == 0 {
		return NewOperationResultFailed(ErrEmptyWhereConditions)
	}
	data, err := d.encryptFields(NormalizeValues(data), options.FieldsToEncrypt)
	if err != nil {
		return NewOperationResultFailed(err)
	}
	conditions = NormalizeValues(conditions)
	r := NewOperationResultSuccess()
	err = d.run(options.UseTransaction, func(e db.Executor) error {
		result, err := db.Update(e, tableName, data, conditions)
		if err != nil {
			return err
		}
		r.RowCount, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return NewOperationResultFailed(err)
	}
	return r
}

// Delete removes the rows matching conditions (AND-joined, or OR-joined when
// requested). Encrypted columns may appear in conditions through
// FieldsToEncrypt: the deterministic cipher makes the bound value match the
// stored ciphertext. Zero affected rows is the distinct not-found outcome,
// not an error and not an ordinary success.
func (d *DXDatabase) Delete(tableName string, conditions utils.JSON, options *DXDeleteOptions) *DXOperationResult {
	if options == nil {
		options = &DXDeleteOptions{}
	}
	if len(conditions) == 0 {
		return NewOperationResultFailed(ErrEmptyWhereConditions)
	}
	conditions, err := d.encryptFields(NormalizeValues(conditions), options.FieldsToEncrypt)
	if err != nil {
		return NewOperationResultFailed(err)
	}
	connector := db.ConnectorAnd
	if options.UseOrConditions {
		connector = db.ConnectorOr
	}
	var rowCount int64
	err = d.run(options.UseTransaction, func(e db.Executor) error {
		result, err := db.Delete(e, tableName, conditions, connector)
		if err != nil {
			return err
		}
		rowCount, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return NewOperationResultFailed(err)
	}
	if rowCount == 0 {
		return NewOperationResultNotFound(fmt.Sprintf("No matching rows found in %s", tableName))
	}
	if !options.SuppressAuditLog {
		log.Log.Infof("AUDIT:DELETE:table=%s;row_count=%d", tableName, rowCount)
	}
	r := NewOperationResultSuccess()
	r.RowCount = rowCount
	return r
}
