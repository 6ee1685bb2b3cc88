package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentdesk/pkg/apperrors"
)

// Resp 统一响应；失败时 error 为可读信息，reason 为 apperrors 的错误码
type Resp struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Details any    `json:"details,omitempty"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应；code 同时就是 HTTP 状态码
func Error(code int, errMsg string) Resp {
	r := New(code, CodeMsgMap[code], struct{}{})
	if errMsg == "" {
		errMsg = r.Msg
	}
	r.Error = errMsg
	return r
}

// FromError AppError 按自身状态码输出；其它错误一律 500，不回显内部信息
func FromError(err error) (int, Resp) {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		status := ae.HTTPCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		r := Error(status, ae.Message)
		r.Reason = string(ae.Code)
		r.Details = ae.Details
		return status, r
	}
	return http.StatusInternalServerError, Error(CodeServerError, "internal error")
}

// Abort 中间件里直接结束请求
func Abort(c *gin.Context, code int, errMsg string) {
	c.AbortWithStatusJSON(code, Error(code, errMsg))
}

// Fail 写出错误并中止
func Fail(c *gin.Context, err error) {
	status, body := FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
