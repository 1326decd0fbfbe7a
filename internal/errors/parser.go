package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a machine code plus a message safe to show to users.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps storage and transport errors onto a code and message without leaking
// driver details. resource names the thing being handled ("user", "reset code", ...).
func ParseError(err error, resource string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(resource)}
	}

	errLower := strings.ToLower(err.Error())

	// PostgreSQL 23505 and SQLite UNIQUE failures
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		if strings.Contains(errLower, "email") {
			return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "An account with this email already exists"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
	}

	// PostgreSQL 23502
	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errLower, "database is closed") || strings.Contains(errLower, "database is locked") {
		return ErrorInfo{Code: InternalDatabase, Message: "Database temporarily unavailable, please try again later"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: InternalExternalAPI, Message: "An upstream service is unavailable, please try again later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
}

func notFoundMessage(resource string) string {
	switch strings.ToLower(resource) {
	case "user", "account":
		return "User not found"
	case "":
		return "Resource not found"
	default:
		r := strings.ToUpper(resource[:1]) + resource[1:]
		return r + " not found"
	}
}

// ParseAndRespond parses err and writes it with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, resource string) {
	info := ParseError(err, resource)
	c.JSON(statusCode, ErrorResponse{
		Error: info.Message,
		Code:  info.Code,
	})
}
