package models

// ErrorKind classifies a failed analysis request
type ErrorKind string

const (
	KindBadRequest       ErrorKind = "bad_request"
	KindNoDateColumn     ErrorKind = "no_date_column"
	KindNoPriceColumn    ErrorKind = "no_price_column"
	KindInsufficientData ErrorKind = "insufficient_data"
	KindEmptyWindow      ErrorKind = "empty_window"
	KindInvalidParameter ErrorKind = "invalid_parameter"
	KindCancelled        ErrorKind = "cancelled"
	KindInternal         ErrorKind = "internal"
)

// ServiceError carries the HTTP status next to the kind, so the body stands on its own
type ServiceError struct {
	Kind    ErrorKind `json:"kind"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
}

// ServiceResponse is the envelope of every API response, exactly one of Data and Error is set
type ServiceResponse[T any] struct {
	Data  *T            `json:"data"`
	Error *ServiceError `json:"error,omitempty"`
}

func GetServiceResponseOk[T any](data *T) ServiceResponse[T] {
	return ServiceResponse[T]{Data: data}
}

func GetServiceResponseError(kind ErrorKind, status int, err error) ServiceResponse[any] {
	return ServiceResponse[any]{
		Error: &ServiceError{
			Kind:    kind,
			Status:  status,
			Message: err.Error(),
		},
	}
}
