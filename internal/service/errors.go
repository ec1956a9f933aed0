package service

import "fmt"

// DefaultErrorMessage is returned when a failure carries no usable message.
const DefaultErrorMessage = "알 수 없는 오류가 발생했습니다."

// AuthorizationError means the caller sent no bearer credential.
type AuthorizationError struct{ Message string }

var ErrMissingAuthorization = AuthorizationError{Message: "Authorization header is missing"}

func (e AuthorizationError) Error() string { return e.Message }

// NotFoundError means a related row the operation depends on is missing.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s(%s) 데이터를 찾을 수 없습니다.", e.Resource, e.ID)
}

// BulkPartialFailureError reports batches that failed to insert while others
// succeeded. Inserted counts the rows that did make it.
type BulkPartialFailureError struct {
	Inserted  int
	FailedIDs []int64
}

func (e BulkPartialFailureError) Error() string {
	return fmt.Sprintf("일부 미션 생성에 실패하였습니다. (생성 %d개, 실패한 미션 설정: %s)",
		e.Inserted, joinIDs(e.FailedIDs))
}

// UnprocessableTransitionError means a webhook diff matched no handled case.
type UnprocessableTransitionError struct{ Reason string }

func (e UnprocessableTransitionError) Error() string {
	return "처리할 수 없는 변경입니다: " + e.Reason
}
