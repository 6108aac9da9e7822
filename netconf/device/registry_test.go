package device

import (
	"errors"
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestBuiltInVendors(t *testing.T) {
	assert.Subset(t, Vendors(), []string{DefaultVendor, HuaweiVendor, NexusVendor})
}

func TestNewResolvesVendor(t *testing.T) {

	p, err := New("Huawei", nil)
	assert.NoError(t, err)
	assert.Equal(t, HuaweiVendor, p.Name(), "Vendor lookup should be case insensitive")

	p, err = New("", nil)
	assert.NoError(t, err)
	assert.Equal(t, DefaultVendor, p.Name(), "Empty vendor should select default profile")
}

func TestNewUnknownVendor(t *testing.T) {

	p, err := New("no-such-vendor", nil)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, ErrUnknownVendor))
}

func TestRegister(t *testing.T) {

	Register("acme", DialectConstructor("acme", Dialect{EnvelopeAttrs: map[string]string{"format": "xml"}}))

	p, err := New("acme", Params{"unrecognised": true})
	assert.NoError(t, err, "Unrecognised params should be ignored")
	assert.Equal(t, "acme", p.Name())
	assert.Equal(t, "xml", p.EnvelopeAttrs()["format"])
	assert.Contains(t, Vendors(), "acme")
}
