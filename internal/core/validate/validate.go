package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"talentdesk/pkg/apperrors"
)

// Validator go-playground/validator 包装，报错字段名取 json tag
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct 校验失败返回 400 AppError，Details 为 字段 -> 规则
func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperrors.Validation(err.Error())
	}
	fields := make(map[string]string, len(ves))
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Namespace()] = rule
		msgs = append(msgs, fmt.Sprintf("%s: %s", fieldName(fe), rule))
	}
	return apperrors.Validation("invalid fields: " + strings.Join(msgs, "; ")).WithDetails(fields)
}

// fieldName 去掉最外层结构体名
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
