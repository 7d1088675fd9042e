package monitoring

import (
	"context"
	"testing"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/fleetops/bpa-app/conf"
)

type MonitoringTestSuite struct {
	suite.Suite
	timer Timer
	hook  *test.Hook
}

func TestMonitoringTestSuite(t *testing.T) {
	suite.Run(t, new(MonitoringTestSuite))
}

func (s *MonitoringTestSuite) SetupTest() {
	s.hook = test.NewGlobal()
	logrus.SetLevel(logrus.DebugLevel)

	// A disabled agent exercises the real timer paths without talking
	// to New Relic
	nr, err := newrelic.NewApplication(newrelic.ConfigEnabled(false))
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), nr)

	// Ignore any log output from agent setup
	s.hook.Reset()
	s.timer = &nrTimer{nr}
}

func (s *MonitoringTestSuite) TestTimer() {
	ctx, closeTxn := s.timer.new(context.Background(), "audit-run")
	assert.NotNil(s.T(), ctx)
	assert.NotNil(s.T(), closeTxn)

	closeChild := s.timer.newChild(ctx, "load-serials")
	assert.NotNil(s.T(), closeChild)

	closeChild()
	closeTxn()
}

func (s *MonitoringTestSuite) TestTimerNoParent() {
	closeChild := s.timer.newChild(context.Background(), "orphan-stage")
	assert.NotNil(s.T(), closeChild)
	closeChild()

	entries := s.hook.AllEntries()
	assert.Equal(s.T(), 1, len(entries))
	assert.Contains(s.T(), entries[0].Message, "No transaction found. Cannot create child.")
}

func (s *MonitoringTestSuite) TestNoOpTimerKeepsContext() {
	timer := &noopTimer{}
	parent := context.WithValue(context.Background(), timerKey, timer)

	ctx, closeTxn := timer.new(parent, "audit-run")
	assert.Equal(s.T(), parent, ctx)
	assert.NotNil(s.T(), closeTxn)

	closeChild := timer.newChild(ctx, "load-serials")
	assert.NotNil(s.T(), closeChild)
}

func (s *MonitoringTestSuite) TestContextPlumbing() {
	ctx := NewContext(context.Background(), s.timer)

	runCtx, endRun := NewParent(ctx, "audit-run")
	assert.NotNil(s.T(), runCtx)
	endStage := NewChild(runCtx, "write-report")
	endStage()
	endRun()

	// Without an embedded timer everything still works through the
	// no-op default
	bareCtx, endRun2 := NewParent(context.Background(), "audit-run")
	assert.NotNil(s.T(), bareCtx)
	endRun2()
}

// TestDefaultTimer validates that a non-nil timer comes back when no
// New Relic agent can be started.
func (s *MonitoringTestSuite) TestDefaultTimer() {
	assert.NoError(s.T(), conf.UnsetEnv(s.T(), "NEW_RELIC_LICENSE_KEY"))

	t := GetTimer()
	assert.NotNil(s.T(), t)
	assert.IsType(s.T(), &noopTimer{}, t)
}
