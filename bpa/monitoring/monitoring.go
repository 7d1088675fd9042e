// Package monitoring times audit runs and their stages through New
// Relic. When no agent can be started (no license key, no connection)
// every operation degrades to a no-op so the audit itself is never
// blocked on telemetry.
package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrlogrus"
	"github.com/newrelic/go-agent/v3/newrelic"
	log "github.com/sirupsen/logrus"

	"github.com/fleetops/bpa-app/bpa/utils"
	"github.com/fleetops/bpa-app/conf"
)

// Timer times one run and its stages. Callers obtain one from
// GetTimer, stash it in a context with NewContext, open the run
// transaction with NewParent, and wrap stages with NewChild:
//
//	timer := monitoring.GetTimer()
//	defer timer.Close()
//	ctx = monitoring.NewContext(ctx, timer)
//	ctx, endRun := monitoring.NewParent(ctx, "audit-run")
//	defer endRun()
//	endStage := monitoring.NewChild(ctx, "load-serials")
//	// load the serial list
//	endStage()
type Timer interface {
	// new opens a transaction and embeds it into the returned context
	// so newChild can hang segments off it.
	new(parentCtx context.Context, name string) (ctx context.Context, close func())

	// newChild opens a segment under the transaction carried by the
	// context.
	newChild(parentCtx context.Context, name string) (close func())

	// Close flushes pending data and shuts the agent down.
	Close()
}

// Un-exported context key type so other packages cannot collide.
type key int

const timerKey key = 0

// NewContext returns a Context carrying the provided Timer.
func NewContext(ctx context.Context, t Timer) context.Context {
	return context.WithValue(ctx, timerKey, t)
}

// NewParent opens the run transaction on the Timer carried by ctx.
func NewParent(ctx context.Context, name string) (context.Context, func()) {
	return fromContext(ctx).new(ctx, name)
}

// NewChild opens a stage segment under the transaction carried by ctx.
func NewChild(ctx context.Context, name string) func() {
	return fromContext(ctx).newChild(ctx, name)
}

var defaultTimer = &noopTimer{}

// fromContext returns the Timer associated with ctx, or the shared
// no-op timer when none was stored.
func fromContext(ctx context.Context) Timer {
	if t, ok := ctx.Value(timerKey).(Timer); ok {
		return t
	}
	return defaultTimer
}

// GetTimer starts the New Relic agent and returns a Timer backed by
// it. Any startup failure is logged and downgraded to the no-op timer.
func GetTimer() Timer {
	target := utils.FromEnv("DEPLOYMENT_TARGET", "local")

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(fmt.Sprintf("BPA-%s", target)),
		newrelic.ConfigLicense(conf.GetEnv("NEW_RELIC_LICENSE_KEY")),
		newrelic.ConfigEnabled(true),
		nrlogrus.ConfigStandardLogger(),
		func(cfg *newrelic.Config) {
			cfg.HighSecurity = true
		},
	)
	if err != nil {
		log.Warnf("Failed to instantiate New Relic application. Default to no-op timer. %s", err.Error())
		return &noopTimer{}
	}

	timeout := time.Duration(utils.GetEnvInt("NEW_RELIC_CONNECTION_TIMEOUT_SECONDS", 30)) * time.Second
	if err = app.WaitForConnection(timeout); err != nil {
		log.Warnf("Failed to establish connection to New Relic server in %s. Default to no-op timer.", timeout)
		return &noopTimer{}
	}

	log.Info("Using New Relic backed timer.")
	return &nrTimer{app}
}

type nrTimer struct {
	nr *newrelic.Application
}

var _ Timer = &nrTimer{}

func (t *nrTimer) new(parentCtx context.Context, name string) (context.Context, func()) {
	txn := t.nr.StartTransaction(name)
	return newrelic.NewContext(parentCtx, txn), func() { txn.End() }
}

func (t *nrTimer) newChild(parentCtx context.Context, name string) func() {
	txn := newrelic.FromContext(parentCtx)
	if txn == nil {
		log.Warn("No transaction found. Cannot create child.")
		return noop
	}
	segment := txn.StartSegment(name)
	return func() { segment.End() }
}

func (t *nrTimer) Close() {
	const shutdownTimeout = 30 * time.Second
	t.nr.Shutdown(shutdownTimeout)
}

type noopTimer struct{}

var _ Timer = &noopTimer{}

func (t *noopTimer) new(parentCtx context.Context, name string) (context.Context, func()) {
	return parentCtx, noop
}

func (t *noopTimer) newChild(parentCtx context.Context, name string) func() {
	return noop
}

func (t *noopTimer) Close() {}

func noop() {}
