// Package health serves liveness and readiness probes for the watch daemon.
//
// /health answers ok while the process runs. /ready runs the registered
// checks concurrently and answers 503 if any fails:
//
//	checker := health.New(time.Second)
//	checker.RegisterCheck("compile", func(ctx context.Context) error {
//	    return lastCompileErr()
//	})
//	checker.Register(mux)
package health
