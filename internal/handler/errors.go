// Package handler はHTTPリクエストのルーティングとハンドリングを提供する。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
)

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
// APIErrorは対応するステータスコードで返し、それ以外は詳細をログに残して
// 一般的な500レスポンスを返す。
func handleServiceError(w http.ResponseWriter, err error, operation string) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("サービス層で予期しないエラーが発生",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はエラーコードをHTTPステータスコードに対応付ける。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeNotMember:
		return http.StatusForbidden
	case model.ErrCodeBoardNotFound, model.ErrCodeProfileNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeInvalidJSONError はリクエストボディのパース失敗時の400レスポンスを書き込む。
func writeInvalidJSONError(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusBadRequest,
		model.NewInvalidInputError("リクエストボディのJSONが不正です"))
}
