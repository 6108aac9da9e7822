package client

import "github.com/damianoneill/ncops/netconf/device"

// Defines structs describing netconf configuration.

// Config defines properties that configure netconf session behaviour.
type Config struct {
	// Defines the time in seconds that the client will wait to receive a hello message from the server.
	SetupTimeoutSecs int
	// Vendor selects the device profile used by the session.
	Vendor string
	// DeviceParams are the vendor tunable options passed to the device profile.
	DeviceParams device.Params
	// DisableChunkedCodec prevents the client from advertising, or using, chunked framing.
	DisableChunkedCodec bool
}

var DefaultConfig = &Config{
	SetupTimeoutSecs: 5,
	Vendor:           device.DefaultVendor,
}
