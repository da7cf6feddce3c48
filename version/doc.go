// Package version reports the partitionflow library version.
//
// Binaries can pin it at build time:
//
//	go build -ldflags "-X github.com/kbukum/partitionflow/version.Version=v1.2.0"
//
// Otherwise it is read from the module build info of the binary that
// imports partitionflow.
package version
