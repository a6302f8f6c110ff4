// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never talk to the warehouse directly: each one is handed the
// driven ports it needs by the composition root.
package services
