package payment

import "errors"

// ErrSignatureMismatch: the notification failed authenticity verification.
// Order state is never touched on this path.
var ErrSignatureMismatch = errors.New("payment notification signature mismatch")

// ErrMalformedPayload: the notification body could not be parsed.
var ErrMalformedPayload = errors.New("malformed payment notification payload")
