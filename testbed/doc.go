// Package testbed provides an in-memory managed runtime for exercising
// the boundary without the real protocol stack.
//
// A Relay rendezvouses clients and hosts by session id; a Factory wired
// to the relay satisfies the root package's Factory interface, so the
// whole boundary can run end-to-end in tests:
//
//	relay := testbed.NewRelay("127.0.0.1", 7777, testbed.DefaultConfig())
//	v, _ := vm.Init(testbed.NewFactory(relay))
//
// Session settings (protocol version, tick rate, packet-type registry,
// client limits) come from a Config, loadable from YAML. Events are
// queued in per-object inboxes and fire during ProcessPackets, mimicking
// delivery from a packet pump. Deliver methods inject raw packets to
// drive the unhandled-packet and wrong-destination paths. Instance
// counters on the relay let tests assert that create/free pairs do not
// leak managed objects.
package testbed
