/*
Package observability turns traversal lifecycle events into Prometheus metrics.

A Metrics value owns its own registry, so several engines (or tests) can run
side by side without colliding on the global default registerer. Its Hooks
method returns domain.LifecycleHooks ready to be passed to
treeflat.WithLifecycleHooks; the registry can then be served over HTTP or
written to a node_exporter textfile.
*/
package observability
