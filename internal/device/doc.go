// Package device holds the authoritative LED strip state.
//
// A controller process owns exactly one [Store]. Every reader (HTTP handlers,
// the render loop, the MQTT bridge) takes a [State] snapshot through
// [Store.Read]; every writer goes through [Store.Update], which applies a
// pure mutator under a single lock and either commits the whole result or
// leaves the stored state untouched.
//
// The lock is held only while the mutator runs. Mutators must not perform
// I/O or call into hardware.
package device
