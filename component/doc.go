// Package component defines lifecycle-managed parts of the client stack
// and a Registry that starts them in order and stops them in reverse.
//
//	reg := component.NewRegistry()
//	_ = reg.Register(telemetry)
//	_ = reg.Register(session)
//	if err := reg.StartAll(ctx); err != nil { ... }
//	defer reg.StopAll(context.Background())
package component
