package errors

import stdErrors "errors"

// ErrorDump is a flattened view of an error chain used for structured logging.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       string   `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
}

// Dump walks the error chain and collects each message for log output.
func Dump(err error) ErrorDump {
	dump := ErrorDump{}
	if err == nil {
		return dump
	}
	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = string(typed.Code())
	}
	for current := err; current != nil; current = stdErrors.Unwrap(current) {
		dump.Chain = append(dump.Chain, current.Error())
	}
	return dump
}
