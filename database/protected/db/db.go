package db

import (
	"database/sql"
	"errors"
	"sort"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/donnyhardyanto/dxdata/utils"
)

const (
	ConnectorAnd = `and`
	ConnectorOr  = `or`
)

// Executor is the SQL-executing capability the helpers run against. Both
// *sqlx.DB and *sqlx.Tx satisfy it, so every helper works identically inside
// and outside a transaction.
type Executor interface {
	DriverName() string
	NamedQuery(query string, arg interface{}) (*sqlx.Rows, error)
	NamedExec(query string, arg interface{}) (sql.Result, error)
}

type RowsInfo struct {
	Columns     []string
	ColumnTypes []*sql.ColumnType
}

// SortedFieldNames returns the keys of kv in sorted order. All SQL-part
// builders walk maps in this order so a given input always produces the same
// statement text.
func SortedFieldNames(kv utils.JSON) []string {
	fieldNames := make([]string, 0, len(kv))
	for k := range kv {
		fieldNames = append(fieldNames, k)
	}
	sort.Strings(fieldNames)
	return fieldNames
}

func SQLPartFieldNames(fieldNames []string) (s string) {
	showFieldNames := ``
	if len(fieldNames) == 0 {
		return `*`
	}
	for _, v := range fieldNames {
		if showFieldNames != `` {
			showFieldNames = showFieldNames + `, `
		}
		showFieldNames = showFieldNames + v
	}
	return showFieldNames
}

// SQLPartWhereFieldNameValues renders the predicate list joined by connector
// (ConnectorAnd or ConnectorOr). A nil value renders as `is null` instead of
// a bound parameter. Bound-parameter name always equals the column name.
func SQLPartWhereFieldNameValues(whereKeyValues utils.JSON, connector string) (s string) {
	whereFieldNameValues := ``
	for _, k := range SortedFieldNames(whereKeyValues) {
		if whereFieldNameValues != `` {
			whereFieldNameValues = whereFieldNameValues + ` ` + connector + ` `
		}
		if whereKeyValues[k] == nil {
			whereFieldNameValues = whereFieldNameValues + k + ` is null`
		} else {
			whereFieldNameValues = whereFieldNameValues + k + `=:` + k
		}
	}
	return whereFieldNameValues
}

func SQLPartOrderByFieldNameDirections(orderbyKeyValues map[string]string) (s string) {
	orderbyFieldNames := make([]string, 0, len(orderbyKeyValues))
	for k := range orderbyKeyValues {
		orderbyFieldNames = append(orderbyFieldNames, k)
	}
	sort.Strings(orderbyFieldNames)
	orderbyFieldNameDirections := ``
	for _, k := range orderbyFieldNames {
		if orderbyFieldNameDirections != `` {
			orderbyFieldNameDirections = orderbyFieldNameDirections + `, `
		}
		orderbyFieldNameDirections = orderbyFieldNameDirections + k + ` ` + orderbyKeyValues[k]
	}
	return orderbyFieldNameDirections
}

// SQLPartSetFieldNameValues binds every SET value under a NEW_-prefixed
// parameter name, so a column present in both the SET and WHERE maps of an
// update never collides on the parameter name.
func SQLPartSetFieldNameValues(setKeyValues utils.JSON) (newSetKeyValues utils.JSON, s string) {
	setFieldNameValues := ``
	newSetKeyValues = utils.JSON{}
	for _, k := range SortedFieldNames(setKeyValues) {
		if setFieldNameValues != `` {
			setFieldNameValues = setFieldNameValues + `,`
		}
		setFieldNameValues = setFieldNameValues + k + `=:NEW_` + k
		newSetKeyValues[`NEW_`+k] = setKeyValues[k]
	}
	return newSetKeyValues, setFieldNameValues
}

func SQLPartInsertFieldNamesFieldValues(insertKeyValues utils.JSON) (fieldNames string, fieldValues string) {
	for _, k := range SortedFieldNames(insertKeyValues) {
		if fieldNames != `` {
			fieldNames = fieldNames + `,`
		}
		fieldNames = fieldNames + k
		if fieldValues != `` {
			fieldValues = fieldValues + `,`
		}
		fieldValues = fieldValues + `:` + k
	}
	return fieldNames, fieldValues
}

// SQLPartConstructSelect builds the full SELECT statement text. Conditions,
// order by and limit are each omitted when absent; limit<=0 means no limit.
func SQLPartConstructSelect(driverName string, tableName string, fieldNames []string, whereFieldNameValues utils.JSON, connector string,
	orderbyFieldNameDirections map[string]string, limit int64) (s string, err error) {
	f := SQLPartFieldNames(fieldNames)
	w := SQLPartWhereFieldNameValues(whereFieldNameValues, connector)
	effectiveWhere := ``
	if w != `` {
		effectiveWhere = ` where ` + w
	}
	o := SQLPartOrderByFieldNameDirections(orderbyFieldNameDirections)
	effectiveOrderBy := ``
	if o != `` {
		effectiveOrderBy = ` order by ` + o
	}
	switch driverName {
	case "sqlserver":
		effectiveLimitAsString := ``
		if limit > 0 {
			effectiveLimitAsString = ` top ` + strconv.FormatInt(limit, 10)
		}
		s = `select` + effectiveLimitAsString + ` ` + f + ` from ` + tableName + effectiveWhere + effectiveOrderBy
		return s, nil
	case "oracle":
		effectiveLimitAsString := ``
		if limit > 0 {
			effectiveLimitAsString = ` fetch first ` + strconv.FormatInt(limit, 10) + ` rows only`
		}
		s = `select ` + f + ` from ` + tableName + effectiveWhere + effectiveOrderBy + effectiveLimitAsString
		return s, nil
	case "postgres", "mysql":
		effectiveLimitAsString := ``
		if limit > 0 {
			effectiveLimitAsString = ` limit ` + strconv.FormatInt(limit, 10)
		}
		s = `select ` + f + ` from ` + tableName + effectiveWhere + effectiveOrderBy + effectiveLimitAsString
		return s, nil
	default:
		err = errors.New(`UNKNOWN_DATABASE_TYPE:` + driverName)
		return ``, err
	}
}

func NamedQueryRows(e Executor, query string, arg any) (rowsInfo *RowsInfo, r []utils.JSON, err error) {
	r = []utils.JSON{}
	if arg == nil {
		arg = utils.JSON{}
	}

	rows, err := e.NamedQuery(query, arg)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	rowsInfo = &RowsInfo{}
	rowsInfo.Columns, err = rows.Columns()
	if err != nil {
		return nil, r, err
	}
	rowsInfo.ColumnTypes, err = rows.ColumnTypes()
	if err != nil {
		return rowsInfo, r, err
	}
	for rows.Next() {
		rowJSON := make(utils.JSON)
		err = rows.MapScan(rowJSON)
		if err != nil {
			return nil, nil, err
		}
		// MySQL and SQL Server drivers hand text columns back as []byte
		for k, v := range rowJSON {
			if b, ok := v.([]byte); ok {
				rowJSON[k] = string(b)
			}
		}
		r = append(r, rowJSON)
	}
	return rowsInfo, r, nil
}

func NamedQueryRow(e Executor, query string, arg any) (rowsInfo *RowsInfo, r utils.JSON, err error) {
	rowsInfo, rs, err := NamedQueryRows(e, query, arg)
	if err != nil {
		return rowsInfo, nil, err
	}
	if len(rs) == 0 {
		return rowsInfo, nil, nil
	}
	return rowsInfo, rs[0], nil
}

func NamedQueryId(e Executor, query string, arg any) (int64, error) {
	rows, err := e.NamedQuery(query, arg)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var returningId int64
	if rows.Next() {
		err := rows.Scan(&returningId)
		if err != nil {
			return 0, err
		}
	} else {
		err := errors.New(`NO_ID_RETURNED:` + query)
		return 0, err
	}
	return returningId, nil
}

// Insert executes the INSERT and reports the new row id. PostgreSQL and SQL
// Server return the id in the statement itself; the other drivers go through
// sql.Result.LastInsertId.
func Insert(e Executor, tableName string, fieldNameForRowId string, keyValues utils.JSON) (id int64, rowCount int64, err error) {
	fn, fv := SQLPartInsertFieldNamesFieldValues(keyValues)
	switch e.DriverName() {
	case "postgres":
		s := `INSERT INTO ` + tableName + ` (` + fn + `) VALUES (` + fv + `) RETURNING ` + fieldNameForRowId
		id, err = NamedQueryId(e, s, keyValues)
		if err != nil {
			return 0, 0, err
		}
		return id, 1, nil
	case "sqlserver":
		s := `INSERT INTO ` + tableName + ` (` + fn + `) OUTPUT INSERTED.` + fieldNameForRowId + ` VALUES (` + fv + `)`
		id, err = NamedQueryId(e, s, keyValues)
		if err != nil {
			return 0, 0, err
		}
		return id, 1, nil
	default:
		s := `INSERT INTO ` + tableName + ` (` + fn + `) VALUES (` + fv + `)`
		result, err := e.NamedExec(s, keyValues)
		if err != nil {
			return 0, 0, err
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, 0, err
		}
		rowCount, err = result.RowsAffected()
		if err != nil {
			return 0, 0, err
		}
		return id, rowCount, nil
	}
}

func Update(e Executor, tableName string, setKeyValues utils.JSON, whereKeyValues utils.JSON) (result sql.Result, err error) {
	newSetKeyValues, u := SQLPartSetFieldNameValues(setKeyValues)
	w := SQLPartWhereFieldNameValues(whereKeyValues, ConnectorAnd)
	joinedKeyValues := utils.ShallowCopy(whereKeyValues)
	for k, v := range newSetKeyValues {
		joinedKeyValues[k] = v
	}
	s := `update ` + tableName + ` set ` + u + ` where ` + w
	result, err = e.NamedExec(s, joinedKeyValues)
	return result, err
}

func Delete(e Executor, tableName string, whereKeyValues utils.JSON, connector string) (r sql.Result, err error) {
	w := SQLPartWhereFieldNameValues(whereKeyValues, connector)
	s := `DELETE FROM ` + tableName + ` where ` + w
	r, err = e.NamedExec(s, whereKeyValues)
	return r, err
}

func Select(e Executor, tableName string, fieldNames []string, whereFieldNameValues utils.JSON, orderbyFieldNameDirections map[string]string,
	limit int64) (rowsInfo *RowsInfo, r []utils.JSON, err error) {
	s, err := SQLPartConstructSelect(e.DriverName(), tableName, fieldNames, whereFieldNameValues, ConnectorAnd, orderbyFieldNameDirections, limit)
	if err != nil {
		return nil, nil, err
	}
	rowsInfo, r, err = NamedQueryRows(e, s, whereFieldNameValues)
	return rowsInfo, r, err
}

// SelectOne fetches at most one row; a nil row means no match.
func SelectOne(e Executor, tableName string, fieldNames []string, whereFieldNameValues utils.JSON,
	orderbyFieldNameDirections map[string]string) (rowsInfo *RowsInfo, r utils.JSON, err error) {
	s, err := SQLPartConstructSelect(e.DriverName(), tableName, fieldNames, whereFieldNameValues, ConnectorAnd, orderbyFieldNameDirections, 1)
	if err != nil {
		return nil, nil, err
	}
	rowsInfo, r, err = NamedQueryRow(e, s, whereFieldNameValues)
	return rowsInfo, r, err
}
