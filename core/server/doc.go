// Package server holds the HTTP server configuration.
//
// The actual Fiber application is assembled in the start command; this
// package only owns the settings (listen port, API key) so that the config
// package can compose them without importing the command layer.
package server
