package apns

import (
	"net/http"

	"github.com/sideshow/apns2"
)

// Response format
// Table 8-3 APNs response headers, Table 8-5 APNs JSON data keys -
// https://developer.apple.com/library/archive/documentation/NetworkingInternet/Conceptual/RemoteNotificationsPG/CommunicatingwithAPNs.html#//apple_ref/doc/uid/TP40008194-CH11-SW1
type Response struct {
	ID         string `json:"id"`
	StatusCode int    `json:"status_code"`
	Reason     string `json:"reason,omitempty"`
}

func NewResponse(src *apns2.Response) *Response {
	return &Response{
		ID:         src.ApnsID,
		StatusCode: src.StatusCode,
		Reason:     src.Reason,
	}
}

// Sent reports whether the gateway accepted the notification for delivery.
func (r *Response) Sent() bool {
	return r.StatusCode == http.StatusOK
}

// BadDeviceToken reports a rejection caused by a stale or malformed device
// token rather than by the request itself.
func (r *Response) BadDeviceToken() bool {
	switch r.Reason {
	case apns2.ReasonBadDeviceToken, apns2.ReasonUnregistered, apns2.ReasonDeviceTokenNotForTopic:
		return true
	}
	return false
}
