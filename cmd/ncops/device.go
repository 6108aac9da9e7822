package main

import (
	"os"
	"time"

	"github.com/damianoneill/ncops/netconf/client"
	"github.com/damianoneill/ncops/netconf/device"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"gopkg.in/yaml.v3"
)

// deviceFile describes how to reach and talk to a device.
type deviceFile struct {
	Target   string `yaml:"target"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// KnownHosts is the path of a known_hosts file used to verify the device host key.
	// Host keys are not verified when it is empty.
	KnownHosts   string                 `yaml:"known_hosts"`
	Vendor       string                 `yaml:"vendor"`
	SetupTimeout int                    `yaml:"setup_timeout"`
	DeviceParams map[string]interface{} `yaml:"device_params"`
}

func parseDevice(data []byte) (*deviceFile, error) {
	dev := &deviceFile{}
	if err := yaml.Unmarshal(data, dev); err != nil {
		return nil, errors.Wrap(err, "failed to parse device file")
	}
	if dev.Target == "" {
		return nil, errors.New("device file: target is required")
	}
	if dev.Username == "" {
		return nil, errors.New("device file: username is required")
	}
	if dev.SetupTimeout < 0 {
		return nil, errors.Errorf("device file: invalid setup_timeout %d", dev.SetupTimeout)
	}
	return dev, nil
}

func loadDevice(path string) (*deviceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read device file")
	}
	dev, err := parseDevice(data)
	return dev, errors.Wrap(err, path)
}

// clientConfig delivers the session configuration. Unset values take the library defaults.
func (d *deviceFile) clientConfig() *client.Config {
	return &client.Config{
		SetupTimeoutSecs: d.SetupTimeout,
		Vendor:           d.Vendor,
		DeviceParams:     device.Params(d.DeviceParams),
	}
}

func (d *deviceFile) sshConfig() (*ssh.ClientConfig, error) {
	cfg := &ssh.ClientConfig{
		User:            d.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(d.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint: gosec
		Timeout:         30 * time.Second,
	}
	if d.KnownHosts != "" {
		cb, err := knownhosts.New(d.KnownHosts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load known hosts")
		}
		cfg.HostKeyCallback = cb
	}
	return cfg, nil
}
