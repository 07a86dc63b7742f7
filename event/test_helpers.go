package event

import "github.com/stretchr/testify/mock"

// MatchLog creates a custom matcher for event log arguments in mocks
func MatchLog(matcher func(Log) bool) interface{} {
	return mock.MatchedBy(matcher)
}
