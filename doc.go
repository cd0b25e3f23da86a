// Package neonbridge defines the boundary between native callers and the
// managed Neon protocol runtime.
//
// The boundary lets arbitrary caller threads drive client and host objects
// that live inside a managed runtime, without either side knowing the
// other's calling convention or failure model. The protocol implementation
// itself is out of scope here: it is represented only by the interfaces in
// this package, and anything satisfying them can sit behind the bridge.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	neonbridge/          Root package with the managed-side interfaces
//	├── vm/              Process-wide runtime binding and caller attachment
//	├── handle/          Generation-checked opaque handle arena
//	├── bridge/          Call forwarding with explicit error returns
//	├── capi/            ABI-shaped flat surface with sentinel returns
//	├── callback/        Typed callback tables and event relaying
//	├── marshal/         Relay address and string marshalling
//	├── errors/          Structured error types for the boundary
//	└── testbed/         In-memory managed runtime for integration tests
//
// # Quick Start
//
// Bind the runtime once, then drive it through the bridge:
//
//	v, err := vm.Init(factory)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer vm.Shutdown()
//
//	b := bridge.New(v)
//	h, err := b.NewClient("Alice")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.FreeClient(h)
//
//	if err := b.ClientConnect(h, 42, "127.0.0.1:7777"); err != nil {
//	    log.Fatal(err)
//	}
//
// Callers that need the original sentinel-and-last-error contract use the
// capi package instead, which layers that behavior over the same bridge.
package neonbridge
