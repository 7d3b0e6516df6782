// Package entities holds the plain data records passed between the engine,
// the orchestrators and the repositories. Nothing here performs I/O.
package entities
