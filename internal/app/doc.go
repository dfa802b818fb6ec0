// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle (read every source table,
// generate instance documents, deliver them to the configured sinks),
// decoupled from any specific entrypoint like a CLI.
package app
