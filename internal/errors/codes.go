package errors

// Machine-readable error codes returned in the "code" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients branch on these, never on the message text.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthCodeInvalid        = "AUTH_CODE_INVALID" // wrong, expired or already used reset code

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationWeakPassword  = "VALIDATION_WEAK_PASSWORD"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadInvalidFolder   = "UPLOAD_INVALID_FOLDER"

	// ==================== Throttling (RATE_) ====================
	RateLimited     = "RATE_LIMITED"
	PaymentRequired = "PAYMENT_REQUIRED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API"
	InternalDatabase    = "INTERNAL_DATABASE"
)
