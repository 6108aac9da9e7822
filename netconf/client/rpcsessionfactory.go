package client

import (
	"context"

	"github.com/damianoneill/ncops/netconf/device"
	"github.com/imdario/mergo"
	"golang.org/x/crypto/ssh"
)

// Defines a factory method for instantiating netconf rpc sessions.

// NewRPCSession connects to the  target using the ssh configuration, and establishes
// a netconf session with default configuration.
func NewRPCSession(ctx context.Context, sshcfg *ssh.ClientConfig, target string) (s Session, err error) {
	return NewRPCSessionWithConfig(ctx, sshcfg, target, DefaultConfig)
}

// NewRPCSessionWithConfig connects to the  target using the ssh configuration, and establishes
// a netconf session with the client configuration.
// The device profile named by the configured vendor is resolved once, before connecting.
func NewRPCSessionWithConfig(ctx context.Context, sshcfg *ssh.ClientConfig, target string, cfg *Config) (s Session, err error) {
	// Use supplied config, but apply any defaults to unspecified values.
	resolvedConfig := *cfg
	_ = mergo.Merge(&resolvedConfig, DefaultConfig)

	var profile *device.Profile
	if profile, err = device.New(resolvedConfig.Vendor, resolvedConfig.DeviceParams); err != nil {
		return
	}

	var subsystems []string
	if subsystems, err = profile.SubsystemNames(); err != nil {
		return
	}

	var t Transport
	if t, err = NewSSHTransport(ctx, sshcfg, target, subsystems...); err != nil {
		return
	}

	// NewSession closes the transport on failure.
	return NewSession(ctx, t, profile, &resolvedConfig)
}
