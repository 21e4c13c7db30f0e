package worker

const (
	ErrorCodeUnknown    ErrorCode = 0
	ErrorCodeBadRequest ErrorCode = 1
	ErrorCodeNotFound   ErrorCode = 2
	ErrorCodeStorage    ErrorCode = 3
	ErrorCodeCredential ErrorCode = 4
	ErrorCodeUpstream   ErrorCode = 5
)

type ErrorCode int

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeBadRequest:
		return "bad request"
	case ErrorCodeNotFound:
		return "not found"
	case ErrorCodeStorage:
		return "storage"
	case ErrorCodeCredential:
		return "credential"
	case ErrorCodeUpstream:
		return "upstream"
	}
	return "unknown"
}

type Response struct {
	CorrelationID string
	UserToken     string
	DeviceToken   string
	ApnsID        string
	Error         error
}

type ResponseError struct {
	Code ErrorCode
	err  error
}

func NewResponseError(code ErrorCode, err error) *ResponseError {
	return &ResponseError{
		Code: code,
		err:  err,
	}
}

func (r *ResponseError) Error() string {
	return r.Code.String() + ": " + r.err.Error()
}

func (r *ResponseError) Err() error {
	return r.err
}
