// Package attach owns the client side of the attach handshake and the
// control-channel wire protocol.
//
// Ownership boundary:
// - namespace pid resolution entry point
// - rendezvous socket discovery and trigger-file handshake
// - socket ownership validation
// - request framing and response classification
//
// The target-side listener is external: this package never creates the
// rendezvous socket, it only polls for it.
package attach
