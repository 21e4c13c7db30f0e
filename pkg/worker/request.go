package worker

type Request struct {
	UserToken     string
	Message       string
	Category      string
	Sandbox       bool
	CorrelationID string
}
