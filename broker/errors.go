package broker

import "errors"

var (
	// ErrUnknownTopic is returned by Decode for a topic no sensor publishes on.
	ErrUnknownTopic = errors.New("unknown topic")

	// ErrInvalidPayload is returned by Decode when a payload does not fit
	// its topic, such as a non-numeric reading.
	ErrInvalidPayload = errors.New("invalid payload")
)
