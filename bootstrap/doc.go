// Package bootstrap runs a gopher command with a uniform lifecycle.
//
// NewApp validates a typed config and initializes logging. RunTask starts
// the registered components, runs the OnStart, OnConfigure and OnReady
// callbacks, executes the task and then stops everything in reverse order.
// SIGINT and SIGTERM cancel the task's context.
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithSummary(os.Stderr))
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(httpclient.NewComponent(cfg.Client))
//	return app.RunTask(ctx, run)
package bootstrap
