package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo エラー情報構造
type ErrorInfo struct {
	Code    string // エラーコード (codes.go参照)
	Message string // ユーザー向けメッセージ
}

// ParseError エラーを解析してユーザー向けのメッセージとコードに変換する
// セキュリティ上の内部情報は隠しつつ、ユーザーが対処できる情報を返す
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "サーバーエラーが発生しました",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM基本エラー
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQLエラーの解析

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 3. ネットワーク/接続エラー
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "外部サービスへの接続に失敗しました。しばらくしてから再度お試しください",
		}
	}

	// 4. 既定の内部サーバーエラー
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint違反エラーの解析
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// メール重複
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "既に使用されているメールアドレスです",
		}
	}

	// 店舗名重複
	if strings.Contains(errLower, "idx_stores_name") {
		return ErrorInfo{
			Code:    StoreNameExists,
			Message: "既に登録されている店舗名です",
		}
	}

	// マスタデータ重複 (ジャンル/路線/プランコード)
	if strings.Contains(errLower, "genres") || strings.Contains(errLower, "railway_lines") || strings.Contains(errLower, "plans") {
		return ErrorInfo{
			Code:    MasterDuplicate,
			Message: "既に登録されているマスタデータです",
		}
	}

	// 編集トークン重複
	if strings.Contains(errLower, "edit_tokens") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "トークンの発行に失敗しました。再度お試しください",
		}
	}

	// Primary key重複
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "既に存在するデータです。再度お試しください",
		}
	}

	// 既定の重複メッセージ
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "既に存在するデータです",
	}
}

// parseForeignKeyError Foreign key constraint違反エラーの解析
func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// 削除時に参照中のデータがある場合
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "genre") || strings.Contains(context, "station") ||
			strings.Contains(context, "plan") || strings.Contains(context, "master") {
			return ErrorInfo{
				Code:    MasterInUse,
				Message: "店舗から参照されているため削除できません",
			}
		}
		if strings.Contains(context, "store") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "店舗に紐付くデータがあるため削除できません",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "関連するデータがあるため削除できません",
		}
	}

	// 存在しない参照データ
	if strings.Contains(errLower, "store_id") || strings.Contains(errLower, "fk_stores") {
		return ErrorInfo{
			Code:    StoreNotFound,
			Message: "存在しない店舗です",
		}
	}
	if strings.Contains(errLower, "genre_id") || strings.Contains(errLower, "station_id") || strings.Contains(errLower, "plan_id") {
		return ErrorInfo{
			Code:    MasterNotFound,
			Message: "存在しないマスタデータです",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "参照先のデータが見つかりません",
	}
}

// parseNotNullError Not null constraint違反エラーの解析
func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "メールアドレスは必須項目です"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "パスワードは必須項目です"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "名称は必須項目です"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "必須項目が入力されていません",
	}
}

// getNotFoundMessage contextに応じたNot Foundメッセージ
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "store") {
		return "店舗が見つかりません"
	}
	if strings.Contains(contextLower, "request") {
		return "申請が見つかりません"
	}
	if strings.Contains(contextLower, "token") {
		return "編集トークンが見つかりません"
	}
	if strings.Contains(contextLower, "report") {
		return "通報が見つかりません"
	}
	if strings.Contains(contextLower, "user") {
		return "ユーザーが見つかりません"
	}
	if strings.Contains(contextLower, "notification") {
		return "通知が見つかりません"
	}
	if strings.Contains(contextLower, "genre") || strings.Contains(contextLower, "station") ||
		strings.Contains(contextLower, "plan") || strings.Contains(contextLower, "master") {
		return "マスタデータが見つかりません"
	}

	return "対象のデータが見つかりません"
}

// ParseAndRespond エラーを解析してそのままレスポンスを返す
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

// getDefaultErrorMessage contextに応じた既定のエラーメッセージ
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "登録中にエラーが発生しました。しばらくしてから再度お試しください"
	}
	if strings.Contains(contextLower, "update") {
		return "更新中にエラーが発生しました。しばらくしてから再度お試しください"
	}
	if strings.Contains(contextLower, "delete") {
		return "削除中にエラーが発生しました。しばらくしてから再度お試しください"
	}
	if strings.Contains(contextLower, "match") {
		return "照合処理中にエラーが発生しました。しばらくしてから再度お試しください"
	}

	return "サーバーエラーが発生しました。しばらくしてから再度お試しください"
}
