package payload

import (
	"github.com/sideshow/apns2/payload"
)

const (
	// DefaultCategory is applied when a dispatch request names none.
	DefaultCategory = "message"

	// DefaultSound is the platform default alert sound.
	DefaultSound = "default"

	// customKeyMessage carries the original message text so a receiving
	// client can act on it without re-parsing the visible alert body.
	customKeyMessage = "message"
)

// Build constructs the provider payload for a dispatch. Pure, no I/O, never
// fails: body is the message, sound the platform default, badge fixed to 1,
// the category defaults when absent and the mutable-content flag enables
// rich content injection on the device.
//
// Payload format:
// https://developer.apple.com/library/archive/documentation/NetworkingInternet/Conceptual/RemoteNotificationsPG/PayloadKeyReference.html#//apple_ref/doc/uid/TP40008194-CH17-SW1
func Build(message, category string, mutable bool) *payload.Payload {

	if category == "" {
		category = DefaultCategory
	}

	p := payload.NewPayload().
		AlertBody(message).
		Sound(DefaultSound).
		Badge(1).
		Category(category).
		Custom(customKeyMessage, message)

	if mutable {
		p.MutableContent()
	}

	return p
}
