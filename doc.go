// Package fleet provides a supervisor that launches planes, keeps each one
// fuelled or bombing on operator request, and reports the ones that crash.
//
// Planes run either as goroutines (the local runtime) or as child processes
// (the process runtime). End-users typically interact with the fleet via the
// high-level Service façade exposed by the root package:
//
//	srv, _ := fleet.New(fleet.DefaultConfig(), fleet.WithInput(os.Stdin))
//	err := srv.Run(ctx)
//
// For more details see the individual sub-packages.
package fleet
