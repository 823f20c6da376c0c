package dto

// ErrorResponse はエラーレスポンスの共通DTOです。
type ErrorResponse struct {
	Error string `json:"error"` // 利用者向けのエラーメッセージ
}
