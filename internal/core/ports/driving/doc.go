// Package driving defines the interfaces that the outside world uses to
// drive the core (the "primary" ports in hexagonal architecture).
//
// The CLI adapter calls these interfaces; core services implement them.
package driving
