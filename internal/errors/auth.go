package errors

var (
	ErrNoToken = &DomainError{
		Code:    "NO_TOKEN",
		Message: "authorization header missing",
		Status:  401,
	}
	ErrInvalidToken = &DomainError{
		Code:    "INVALID_TOKEN",
		Message: "invalid or expired token",
		Status:  401,
	}
	ErrInsufficientPermissions = &DomainError{
		Code:    "INSUFFICIENT_PERMISSIONS",
		Message: "admin privileges required",
		Status:  403,
	}
	ErrAccessDenied = &DomainError{
		Code:    "ACCESS_DENIED",
		Message: "you do not have access to this resource",
		Status:  403,
	}
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
		Status:  404,
	}
	ErrRoleCheck = &DomainError{
		Code:    "ROLE_CHECK_ERROR",
		Message: "could not resolve user role",
		Status:  500,
	}
	ErrOwnershipCheck = &DomainError{
		Code:    "OWNERSHIP_CHECK_ERROR",
		Message: "could not verify resource ownership",
		Status:  500,
	}
)
