// Package aggregates holds the error taxonomy shared by the domain and use-case layers.
//
// Every failure surfaced to a caller carries one ErrorCode; transports translate codes, never
// messages.
package aggregates
