package usecase

import (
	"errors"
	"fmt"
)

// HandlerがHTTPステータスへ変換するエラー。
// 400: 入力不正 / 404: 未存在・非所有 / 409: 不正な状態遷移 / 500: DB障害
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
