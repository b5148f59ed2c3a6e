// Package internal holds crypto-random primitives shared by the root
// engine and its sub-packages. Nothing here is part of the public API.
package internal
