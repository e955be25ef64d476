package errors

// RateLimitWindowSeconds is the advisory retry-after sent with every
// rate-limit rejection.
const RateLimitWindowSeconds = 3600

var ErrRateLimitExceeded = &DomainError{
	Code:       "RATE_LIMIT_EXCEEDED",
	Message:    "too many requests, please try again later",
	Status:     429,
	Retryable:  true,
	RetryAfter: RateLimitWindowSeconds,
}
