package repository

import "errors"

var (
	ErrPendingRequestExists = errors.New("a pending subscription request already exists")
	ErrQuotaExceeded        = errors.New("active offer quota exceeded")
)
