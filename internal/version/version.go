// ABOUTME: Version and product identification
// ABOUTME: Reported in remote handshakes, mDNS records and the UI header
package version

const (
	Version      = "0.3.0"
	Product      = "PadSampler"
	Manufacturer = "Resonate Protocol"
)
