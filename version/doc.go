// Package version carries the build identity of the vetta binary.
//
// Values are injected at link time and fall back to the VCS stamp the Go
// toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/vetta/version.Version=0.3.0 \
//	    -X github.com/kbukum/vetta/version.BuildTime=$(date -u +%FT%TZ)" ./cmd/vetta
package version
