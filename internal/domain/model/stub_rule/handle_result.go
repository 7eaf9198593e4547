package model

import "time"

// HandleResult is the outcome of handling one request: the chosen rule (nil
// when nothing matched) and the response to send.
type HandleResult struct {
	Rule     *StubRule
	Response ResponseSpec
}

func (r HandleResult) Matched() bool {
	return r.Rule != nil
}

// Delay is how long the transport waits before answering.
func (r HandleResult) Delay() time.Duration {
	if r.Rule == nil {
		return 0
	}
	return r.Rule.Delay
}
