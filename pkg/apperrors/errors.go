package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 业务错误码
type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeConstraint       ErrorCode = "CONSTRAINT_VIOLATION"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// AppError 统一错误对象；HTTPCode 决定响应状态码
type AppError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Details  any       `json:"details,omitempty"`
	HTTPCode int       `json:"-"`
	Err      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode, Err: err}
}

func Validation(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Conflict(message string) *AppError {
	return New(CodeAlreadyExists, message, http.StatusConflict)
}

// Constraint 违反业务约束（例如删除最后一个管理员）
func Constraint(message string) *AppError {
	return New(CodeConstraint, message, http.StatusConflict)
}

func Internal(message string, err error) *AppError {
	return Wrap(err, CodeInternalError, message, http.StatusInternalServerError)
}

// As 取出链路上的 *AppError
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HasCode 判断 err 是否为指定错误码
func HasCode(err error, code ErrorCode) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}

// StatusOf 未知错误一律 500
func StatusOf(err error) int {
	if ae, ok := As(err); ok && ae.HTTPCode != 0 {
		return ae.HTTPCode
	}
	return http.StatusInternalServerError
}
