// Package process runs every plane as a child OS process. The supervisor
// re-executes its own binary with the hidden plane command; notifications
// are POSIX signals and crash reports travel through a directory queue
// because parent and child share no memory.
package process
