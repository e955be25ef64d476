package errors

var ErrOrderNotFound = &DomainError{
	Code:    "ORDER_NOT_FOUND",
	Message: "order not found",
	Status:  404,
}
