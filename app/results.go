package app

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

// TxResult is the outcome of a transaction as exposed to a client. Failed
// transactions carry a non zero code and a possibly redacted log.
type TxResult struct {
	Code uint32     `json:"code"`
	Log  string     `json:"log,omitempty"`
	Data []byte     `json:"data,omitempty"`
	Tags []loom.Tag `json:"tags,omitempty"`
}

// IsOK returns true if the transaction succeeded.
func (r TxResult) IsOK() bool {
	return r.Code == errors.SuccessCode
}

// DeliverOrError returns the result of a delivered transaction,
// converting the error if present.
func DeliverOrError(result *loom.DeliverResult, err error, debug bool) TxResult {
	if err != nil {
		return errorResult(err, debug)
	}
	if result == nil {
		return TxResult{}
	}
	return TxResult{
		Data: result.Data,
		Log:  result.Log,
		Tags: result.Tags,
	}
}

// CheckOrError returns the result of a checked transaction, converting the
// error if present.
func CheckOrError(result *loom.CheckResult, err error, debug bool) TxResult {
	if err != nil {
		return errorResult(err, debug)
	}
	if result == nil {
		return TxResult{}
	}
	return TxResult{
		Data: result.Data,
		Log:  result.Log,
	}
}

func errorResult(err error, debug bool) TxResult {
	code, log := errors.Info(err, debug)
	return TxResult{Code: code, Log: log}
}
