// Package mail renders and delivers account notification emails.
package mail

import "context"

// Kind selects the template of a message.
type Kind string

const (
	KindWelcome   Kind = "welcome"
	KindVerifyOTP Kind = "verify_otp"
	KindResetOTP  Kind = "reset_otp"
)

// Message is a notification to render and deliver. Data holds the template
// values, including the passcode for OTP kinds, and must never be logged.
type Message struct {
	To   string            `json:"to"`
	Kind Kind              `json:"kind"`
	Data map[string]string `json:"data"`
}

// Welcome builds the message sent after registration.
func Welcome(to, name string) Message {
	return Message{To: to, Kind: KindWelcome, Data: map[string]string{"Name": name}}
}

// VerifyOTP builds the email-verification passcode message.
func VerifyOTP(to, name, code string) Message {
	return Message{To: to, Kind: KindVerifyOTP, Data: map[string]string{"Name": name, "OTP": code}}
}

// ResetOTP builds the password-reset passcode message.
func ResetOTP(to, name, code string) Message {
	return Message{To: to, Kind: KindResetOTP, Data: map[string]string{"Name": name, "OTP": code}}
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher hands a message off for delivery without waiting for it.
// An error means the message was not accepted; delivery failures after
// acceptance are only logged.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}
