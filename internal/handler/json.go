package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// decodeJSON はリクエストボディをデコードする。
// 失敗時は400レスポンスを書き込みfalseを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeInvalidJSONError(w)
		return false
	}
	return true
}

// writeJSON は指定したステータスコードでJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSONレスポンスの書き込みに失敗", slog.String("error", err.Error()))
	}
}
