package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"
)

// HTTPError はhandlerでそのままステータスに変換する
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

// 共通のエラー
func errDB() error           { return NewHTTPError(http.StatusInternalServerError, "db error") }
func errNotFound() error     { return NewHTTPError(http.StatusNotFound, "not found") }
func errUnauthorized() error { return NewHTTPError(http.StatusUnauthorized, "unauthorized") }
func errBadRequest(msg string) error {
	return NewHTTPError(http.StatusBadRequest, msg)
}

// 状態遷移の失敗は409
func errTransition(err error) error {
	return NewHTTPError(http.StatusConflict, err.Error())
}

// repoのエラーをHTTPErrorに寄せる。HTTPErrorはそのまま返す
func mapRepoErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return errNotFound()
	case errors.Is(err, repo.ErrConflict):
		return NewHTTPError(http.StatusConflict, "conflict")
	case errors.Is(err, model.ErrInvalidTransition):
		return errTransition(err)
	default:
		return errDB()
	}
}
