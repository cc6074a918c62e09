package mocks

import "github.com/stretchr/testify/mock"

// Logger is a mock implementation of common.Logger
type Logger struct {
	mock.Mock
}

// Debugf handles debug level messages
func (m *Logger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

// Infof handles info level messages
func (m *Logger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

// Warnf handles warn level messages
func (m *Logger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

// Errorf handles error level messages
func (m *Logger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

// Fatalf handles fatal level messages
func (m *Logger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

// Panicf handles panic level messages
func (m *Logger) Panicf(format string, args ...interface{}) {
	m.Called(format, args)
}
