// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

// Package types defines the data structures used.
package types

// TallyRequest is the inbound body for /analyze and /classify.
// A nil Text (absent or null) counts as the empty string.
type TallyRequest struct {
	Text *string `json:"text"`
}

// PlainText returns the carried text, empty when absent.
func (r TallyRequest) PlainText() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}

// TextTally is the result of counting a text.
type TextTally struct {
	Length         int `json:"length"`
	UppercaseCount int `json:"uppercaseCount"`
}

// Classification wraps a tally with the short/long verdict.
type Classification struct {
	Classification string    `json:"classification"`
	Analysis       TextTally `json:"analysis"`
}
