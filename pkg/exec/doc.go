// Package exec runs parsed NexusRavenV2 calls against registered Go
// handlers.
//
// The Engine resolves each call expression against a funcs.Registry, binds
// positional and keyword arguments to the declared parameters (applying
// defaults and checking declared types), evaluates nested calls
// innermost-first, and invokes the function's handler with timeout,
// concurrency limiting, and panic recovery.
//
//	engine := exec.NewEngine(registry)
//	calls, _ := out.Calls()
//	results, err := engine.ExecuteAll(ctx, calls)
//
// ExecuteAll runs parallel calls (the ';'-separated form NexusRavenV2
// emits) concurrently and returns results in input order.
package exec
