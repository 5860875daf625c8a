package errors

// エラーコード定数定義
// 形式: CATEGORY_SPECIFIC_DETAIL
// フロントエンドはこのコードを基にメッセージをマッピングする

const (
	// ==================== 認証 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // ログイン必須
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // メール/パスワード不一致
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // トークン期限切れ
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 不正なトークン
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // トークン失効済み
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // メール重複
	AuthAccountDisabled    = "AUTH_ACCOUNT_DISABLED"    // アカウント無効

	// ==================== 認可/権限 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // アクセス権限なし
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 権限情報なし
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 管理者のみ可能

	// ==================== 検証 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 不正な入力
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 不正なID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 不正な形式
	ValidationRequired      = "VALIDATION_REQUIRED"       // 必須項目

	// ==================== リソース (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // リソースなし
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 既に存在
	ResourceConflict      = "RESOURCE_CONFLICT"       // 競合

	// ==================== 店舗 (STORE_) ====================
	StoreNotFound    = "STORE_NOT_FOUND"    // 店舗なし
	StoreInactive    = "STORE_INACTIVE"     // 掲載停止中
	StoreNameExists  = "STORE_NAME_EXISTS"  // 店舗名重複
	StoreConflict    = "STORE_CONFLICT"     // 更新競合 (楽観ロック失敗)
	StoreExportError = "STORE_EXPORT_ERROR" // エクスポート失敗

	// ==================== 申請 (REQUEST_) ====================
	RequestNotFound          = "REQUEST_NOT_FOUND"          // 申請なし
	RequestInvalidTransition = "REQUEST_INVALID_TRANSITION" // 不正なステータス遷移
	RequestNotVerified       = "REQUEST_NOT_VERIFIED"       // 書類確認が未完了
	RequestAlreadyLinked     = "REQUEST_ALREADY_LINKED"     // 既に店舗に紐付け済み
	RequestPurgeForbidden    = "REQUEST_PURGE_FORBIDDEN"    // 却下済み以外は削除不可

	// ==================== マスタ (MASTER_) ====================
	MasterNotFound  = "MASTER_NOT_FOUND" // マスタデータなし
	MasterInUse     = "MASTER_IN_USE"    // 参照中のため削除不可
	MasterDuplicate = "MASTER_DUPLICATE" // 重複

	// ==================== 編集トークン (TOKEN_) ====================
	EditTokenNotFound = "TOKEN_NOT_FOUND"     // トークンなし
	EditTokenExpired  = "TOKEN_EXPIRED"       // 期限切れ
	EditTokenRevoked  = "TOKEN_REVOKED"       // 失効済み
	EditTokenGated    = "TOKEN_AUTH_REQUIRED" // 二次認証が必要

	// ==================== 通報 (REPORT_) ====================
	ReportNotFound       = "REPORT_NOT_FOUND"       // 通報なし
	ReportAlreadyHandled = "REPORT_ALREADY_HANDLED" // 対応済み

	// ==================== 通知 (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND" // 通知なし

	// ==================== アップロード (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 不正なファイル形式
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // ファイルサイズ超過
	UploadFailed          = "UPLOAD_FAILED"            // アップロード失敗

	// ==================== 内部エラー (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // サーバーエラー
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DBエラー
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 外部APIエラー
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 設定エラー
)
