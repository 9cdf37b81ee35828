package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries a parsed error code and message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates a storage-layer error into a code and a message
// that does not leak internal state. context names the failed operation
// ("register user", "create product", ...).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "internal server error",
		}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Postgres unique constraint violation (23505); sqlite reports
	// "UNIQUE constraint failed"
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		if strings.Contains(errStr, "username") {
			return ErrorInfo{Code: AuthUsernameExists, Message: "username already exists"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "resource already exists"}
	}

	// Foreign key violation (23503)
	if strings.Contains(errStr, "foreign key constraint") {
		if strings.Contains(errStr, "still referenced") {
			return ErrorInfo{Code: ResourceConflict, Message: "resource is referenced by other data"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "referenced resource does not exist"}
	}

	// Not-null violation (23502)
	if strings.Contains(errStr, "not-null constraint") || strings.Contains(errStr, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "required field is missing"}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "database is unavailable, try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultErrorMessage(context),
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") {
		return "product not found"
	}
	if strings.Contains(contextLower, "user") {
		return "user not found"
	}
	if strings.Contains(contextLower, "cart") {
		return "cart item not found"
	}
	return "requested resource not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "register") || strings.Contains(contextLower, "create") {
		return "database error while creating resource"
	}
	if strings.Contains(contextLower, "update") {
		return "database error while updating resource"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "remove") {
		return "database error while deleting resource"
	}
	return "internal server error"
}
