// ABOUTME: Sampler remote control protocol package
// ABOUTME: Defines protocol messages and a WebSocket client
// Package protocol implements the sampler's remote control protocol.
//
// Messages are JSON envelopes {"type": ..., "payload": ...} exchanged over
// a WebSocket. A client says client/hello, receives server/hello and the
// current session/state, then sends commands such as pad/trigger.
//
// Example:
//
//	client := protocol.NewClient(protocol.Config{ServerAddr: "localhost:8928", Name: "padctl"})
//	err := client.Connect()
//	err = client.TriggerPad(3)
package protocol
