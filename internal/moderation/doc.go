// Package moderation screens in-app messages for attempts to exchange
// contact details. It detects phone numbers and email addresses, including
// spelled-out and deliberately obscured forms, redacts them, and scores how
// confident the detection is.
//
// Everything in this package is a pure function over a string and is safe
// for concurrent use.
package moderation
