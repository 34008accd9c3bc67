// Package provider implements a small generic provider framework for
// swappable backends.
//
// A Registry maps names to factories; a Manager instantiates providers from
// the registry and picks one by default name or through a Selector.
// Streaming backends hand results out through Iterator, a pull-based,
// single-consumer sequence that stops at the first error.
//
// # Usage
//
//	reg := provider.NewRegistry[MyProvider]()
//	reg.RegisterFactory("local", myFactory)
//	mgr := provider.NewManager(reg, &provider.HealthCheckSelector[MyProvider]{})
//	_ = mgr.Initialize("local", cfg)
//	p, _ := mgr.Get(ctx)
package provider
