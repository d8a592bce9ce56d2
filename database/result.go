package database

import (
	"github.com/donnyhardyanto/dxdata/utils"
)

type DXOperationResultKind int

const (
	OperationResultFailed DXOperationResultKind = iota
	OperationResultSuccess
	OperationResultNotFound
)

func (k DXOperationResultKind) String() string {
	switch k {
	case OperationResultSuccess:
		return "success"
	case OperationResultNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// DXOperationResult is the uniform outcome of every CRUD operation. Status is
// always set: true for success and not-found (nothing went wrong), false for
// failure. A fresh result is constructed per call and never retained.
type DXOperationResult struct {
	Kind         DXOperationResultKind
	Status       bool
	LastInsertId int64
	RowCount     int64
	Rows         []utils.JSON
	Message      string
	Err          error
}

func NewOperationResultSuccess() *DXOperationResult {
	return &DXOperationResult{
		Kind:   OperationResultSuccess,
		Status: true,
	}
}

func NewOperationResultNotFound(message string) *DXOperationResult {
	return &DXOperationResult{
		Kind:    OperationResultNotFound,
		Status:  true,
		Message: message,
	}
}

func NewOperationResultFailed(err error) *DXOperationResult {
	return &DXOperationResult{
		Kind:   OperationResultFailed,
		Status: false,
		Err:    err,
	}
}

func (r *DXOperationResult) IsSuccess() bool {
	return r.Kind == OperationResultSuccess
}

func (r *DXOperationResult) IsNotFound() bool {
	return r.Kind == OperationResultNotFound
}

func (r *DXOperationResult) IsFailed() bool {
	return r.Kind == OperationResultFailed
}

// ErrorMessage returns the human-readable failure text, empty when the
// operation did not fail.
func (r *DXOperationResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
