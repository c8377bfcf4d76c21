package domain

import (
	"errors"
	"net/http"
)

// AppError is an error that is safe to show to the caller, with the HTTP status it maps to.
type AppError struct {
	Message string
	Code    int
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrEmailAlreadyExists = &AppError{Message: "user with this email already exists", Code: http.StatusConflict}
	ErrInvalidCredentials = &AppError{Message: "invalid email or password", Code: http.StatusUnauthorized}
	ErrInvalidID          = &AppError{Message: "invalid id", Code: http.StatusBadRequest}
	ErrForbidden          = &AppError{Message: "operation not allowed for this user", Code: http.StatusForbidden}
	ErrInvalidRole        = &AppError{Message: "unknown role", Code: http.StatusBadRequest}

	ErrUserNotFound           = &AppError{Message: "user not found", Code: http.StatusNotFound}
	ErrRepresentativeNotFound = &AppError{Message: "representative not found", Code: http.StatusNotFound}
	ErrClientNotFound         = &AppError{Message: "client not found", Code: http.StatusNotFound}
	ErrPlanNotFound           = &AppError{Message: "plan not found", Code: http.StatusNotFound}
	ErrSaleNotFound           = &AppError{Message: "sale not found", Code: http.StatusNotFound}
	ErrChatNotFound           = &AppError{Message: "chat not found", Code: http.StatusNotFound}
	ErrProfileNotFound        = &AppError{Message: "no profile is linked to this user", Code: http.StatusNotFound}

	ErrInvalidSupervisor  = &AppError{Message: "supervisor must be another existing representative without a cycle", Code: http.StatusBadRequest}
	ErrInvalidCreditRange = &AppError{Message: "minimum credit must not exceed maximum credit", Code: http.StatusBadRequest}
	ErrSaleNotPending     = &AppError{Message: "only pending sales can be approved or rejected", Code: http.StatusConflict}
	ErrSaleNotApproved    = &AppError{Message: "commission exists only for approved sales", Code: http.StatusConflict}
	ErrRejectionReason    = &AppError{Message: "a rejection reason is required", Code: http.StatusBadRequest}
	ErrTemplateNotSet     = &AppError{Message: "no contract template has been saved", Code: http.StatusNotFound}
	ErrEmptyMessage       = &AppError{Message: "message text is required", Code: http.StatusBadRequest}

	ErrAssistantUnavailable = &AppError{Message: "assistant is not available", Code: http.StatusServiceUnavailable}
)

// AsAppError reports whether err is, or wraps, an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
