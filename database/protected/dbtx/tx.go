package dbtx

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/donnyhardyanto/dxdata/log"
)

type TxCallback func(tx *sqlx.Tx) (err error)

// Tx runs callback inside a transaction. Commit happens only when the
// callback returns nil; every error path rolls back before returning, so no
// transaction is ever left open across the call boundary.
func Tx(l *log.DXLog, db *sqlx.DB, isolationLevel sql.IsolationLevel, callback TxCallback) (err error) {
	tx, err := db.BeginTxx(l.Context, &sql.TxOptions{
		Isolation: isolationLevel,
		ReadOnly:  false,
	})
	if err != nil {
		l.Error(err.Error())
		return err
	}
	err = callback(tx)
	if err != nil {
		l.Errorf(`TX_ERROR_IN_CALLBACK: (%v)`, err.Error())
		errTx := tx.Rollback()
		if errTx != nil {
			l.Errorf(`SHOULD_NOT_HAPPEN:ERROR_IN_ROLLBACK(%v)`, errTx.Error())
		}
		return err
	}
	err = tx.Commit()
	if err != nil {
		l.Errorf(`TX_ERROR_IN_COMMIT: (%v)`, err.Error())
		errTx := tx.Rollback()
		if errTx != nil {
			l.Errorf(`ErrorInCommitRollback: (%v)`, errTx.Error())
		}
		return err
	}

	return nil
}
