// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"twc/cache"
	"twc/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg   *config.Config
	Rpt   *config.Report
	Log   *zap.Logger
	Cache *cache.Store

	// identifies single program run in logs, reports and generated headers
	RunID string

	// used by build subcommand
	Strict bool

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// CloseCache releases rule cache if one was opened.
func (e *LocalEnv) CloseCache() error {
	if e.Cache == nil {
		return nil
	}
	err := e.Cache.Close()
	e.Cache = nil
	return err
}
