//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package main

// The shared snapshot region is specified as little-endian float32 plus a
// little-endian int32 flag, and the channel views alias it through native
// unsafe.Slice loads and stores.
var _ = "IntuitionScope requires a little-endian architecture" + 1
