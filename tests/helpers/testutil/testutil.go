// Package testutil provides fakes shared by the launcher's package tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockADB is a mock adb.Runner. Expectations are keyed by the space-joined
// argument vector, e.g. m.On("Run", "shell dumpsys power").
type MockADB struct {
	mock.Mock
}

// Run mocks the Run method.
func (m *MockADB) Run(ctx context.Context, args ...string) (string, error) {
	ret := m.Called(strings.Join(args, " "))
	return ret.String(0), ret.Error(1)
}

// Count returns how many times the given command line was run.
func (m *MockADB) Count(cmdline string) int {
	n := 0
	for _, call := range m.Calls {
		if call.Method == "Run" && len(call.Arguments) == 1 && call.Arguments.String(0) == cmdline {
			n++
		}
	}
	return n
}

// NewMockADB creates a mock adb runner whose `shell monkey` launch succeeds by
// default.
func NewMockADB(t *testing.T) *MockADB {
	t.Helper()
	m := new(MockADB)
	m.On("Run", mock.MatchedBy(func(cmdline string) bool {
		return strings.HasPrefix(cmdline, "shell monkey -p ")
	})).Return("Events injected: 1\n", nil).Maybe()
	return m
}

// Sleeper records requested pauses without sleeping.
type Sleeper struct {
	mu    sync.Mutex
	Calls []time.Duration
}

// Sleep records d and returns immediately unless ctx is already done.
func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.Calls = append(s.Calls, d)
	s.mu.Unlock()
	return ctx.Err()
}

// Count returns the number of recorded pauses.
func (s *Sleeper) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// DevicesOutput renders `adb devices` output listing the given endpoints.
func DevicesOutput(endpoints ...string) string {
	var b strings.Builder
	b.WriteString("List of devices attached\n")
	for _, endpoint := range endpoints {
		b.WriteString(endpoint)
		b.WriteString("\tdevice\n")
	}
	b.WriteString("\n")
	return b.String()
}

// Power dumps as printed by `dumpsys power` on Fire OS.
const (
	PowerDumpAwake  = "POWER MANAGER (dumpsys power)\n  mWakefulness=Awake\n  mInteractive=true\n"
	PowerDumpAsleep = "POWER MANAGER (dumpsys power)\n  mWakefulness=Asleep\n  mInteractive=false\n  Display Power: state=OFF\n"
)
