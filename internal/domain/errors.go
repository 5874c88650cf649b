package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrorKind 是错误的判别字段，调用方应当对其做穷尽匹配
type ErrorKind int

const (
	KindInvalidTimeFormat ErrorKind = iota + 1
	KindResourceNotFound
	KindShiftConflict
	KindBusinessRuleViolation
	KindDuplicateAssignment
	KindUnauthorizedCrossTenant
	KindTransactionFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTimeFormat:
		return "invalid_time_format"
	case KindResourceNotFound:
		return "resource_not_found"
	case KindShiftConflict:
		return "shift_conflict"
	case KindBusinessRuleViolation:
		return "business_rule_violation"
	case KindDuplicateAssignment:
		return "duplicate_assignment"
	case KindUnauthorizedCrossTenant:
		return "unauthorized_cross_tenant"
	case KindTransactionFailed:
		return "transaction_failed"
	default:
		return "unknown"
	}
}

// IsBusiness 报告该类错误是否必须原样透传给调用方
func (k ErrorKind) IsBusiness() bool {
	return k != KindTransactionFailed && k != 0
}

type Error struct {
	Kind    ErrorKind
	Op      string
	Message string

	ConflictingAssignmentID uuid.UUID
	Violations              []string
	Candidate               *CandidateRef

	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if len(e.Violations) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Violations, "; "))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf 返回 err 链中第一个 *Error 的类型，不存在时返回 0
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// AsError 从 err 链中取出 *Error
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// WithCandidate 为业务错误附上出错的候选班次，用于批量操作定位
func WithCandidate(err error, ref *CandidateRef) error {
	e, ok := AsError(err)
	if !ok {
		return err
	}
	cp := *e
	cp.Candidate = ref
	return &cp
}

func NewInvalidTimeFormat(value string) *Error {
	return &Error{
		Kind:    KindInvalidTimeFormat,
		Message: fmt.Sprintf("时间格式错误: %q 不是合法的 HH:mm", value),
	}
}

func NewResourceNotFound(resource string, id uuid.UUID) *Error {
	return &Error{
		Kind:    KindResourceNotFound,
		Message: fmt.Sprintf("%s %s 不存在", resource, id),
	}
}

func NewShiftConflict(conflictingID uuid.UUID) *Error {
	return &Error{
		Kind:                    KindShiftConflict,
		Message:                 "与已有班次时间冲突",
		ConflictingAssignmentID: conflictingID,
	}
}

func NewBusinessRuleViolation(violations []string) *Error {
	return &Error{
		Kind:       KindBusinessRuleViolation,
		Message:    "违反排班规则",
		Violations: violations,
	}
}

func NewDuplicateAssignment() *Error {
	return &Error{
		Kind:    KindDuplicateAssignment,
		Message: "相同的班次已存在",
	}
}

func NewUnauthorizedCrossTenant(requested, verified int) *Error {
	return &Error{
		Kind:    KindUnauthorizedCrossTenant,
		Message: fmt.Sprintf("请求了 %d 个员工，但只有 %d 个属于当前公司", requested, verified),
	}
}

func NewTransactionFailed(op string, err error) *Error {
	return &Error{
		Kind:    KindTransactionFailed,
		Op:      op,
		Message: "事务执行失败",
		Err:     err,
	}
}
