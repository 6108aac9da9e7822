package device

import (
	"sort"

	"github.com/damianoneill/ncops/netconf/common"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
)

// DefaultSubsystem is the SSH subsystem used by netconf servers.
const DefaultSubsystem = "netconf"

// Dialect describes how a vendor departs from the generic protocol behaviour.
// A Dialect is combined with the library defaults when a Profile is constructed.
type Dialect struct {
	// ReplaceCapabilities maps a default capability to the value the vendor expects in its place.
	ReplaceCapabilities map[string]string
	// AddCapabilities are advertised after the default capabilities.
	AddCapabilities []string
	// Namespaces maps prefixes to namespace URIs; the empty prefix is the default namespace.
	// Entries take precedence over the defaults, which are otherwise retained.
	Namespaces map[string]string
	// EnvelopeAttrs are auxiliary attributes added to the rpc element.
	EnvelopeAttrs map[string]string
	// ExemptErrors are patterns for error messages that should not be treated as failures.
	ExemptErrors []string
	// SubsystemNames are the SSH subsystems to be tried, in order.
	SubsystemNames []string
}

var defaultNamespaces = map[string]string{"": common.NetconfNS}

// Profile is the per-device policy used when building requests and interpreting replies.
// A Profile is immutable once constructed and may be shared between goroutines.
type Profile struct {
	name          string
	params        Params
	capabilities  []string
	namespaces    map[string]string
	envelopeAttrs map[string]string
	exempt        []ExemptMatcher
	subsystems    []string
}

// NewProfile combines the dialect with the library defaults.
func NewProfile(name string, d Dialect, params Params) *Profile {
	p := &Profile{
		name:          name,
		params:        params.copy(),
		capabilities:  buildCapabilities(d),
		namespaces:    copyStrings(d.Namespaces),
		envelopeAttrs: copyStrings(d.EnvelopeAttrs),
		subsystems:    append([]string(nil), d.SubsystemNames...),
	}
	_ = mergo.Merge(&p.namespaces, defaultNamespaces)

	for _, pattern := range d.ExemptErrors {
		p.exempt = append(p.exempt, NewExemptMatcher(pattern))
	}
	if len(p.subsystems) == 0 {
		p.subsystems = []string{DefaultSubsystem}
	}
	return p
}

func buildCapabilities(d Dialect) []string {
	caps := make([]string, 0, len(common.DefaultCapabilities)+len(d.AddCapabilities))
	for _, c := range common.DefaultCapabilities {
		if r, ok := d.ReplaceCapabilities[c]; ok {
			c = r
		}
		caps = append(caps, c)
	}
	return append(caps, d.AddCapabilities...)
}

// Name delivers the vendor name of the profile.
func (p *Profile) Name() string {
	return p.name
}

// Params delivers a copy of the device parameters.
func (p *Profile) Params() Params {
	return p.params.copy()
}

// Capabilities delivers the capabilities advertised to the device.
func (p *Profile) Capabilities() []string {
	return append([]string(nil), p.capabilities...)
}

// NamespaceContext delivers the prefix to URI mapping attached to every request envelope.
func (p *Profile) NamespaceContext() map[string]string {
	return copyStrings(p.namespaces)
}

// EnvelopeAttrs delivers the attributes of the outermost request element: the namespace
// context as xmlns declarations, and any vendor specific attributes.
func (p *Profile) EnvelopeAttrs() map[string]string {
	attrs := copyStrings(p.envelopeAttrs)
	for prefix, uri := range p.namespaces {
		attrs[XmlnsAttr(prefix)] = uri
	}
	return attrs
}

// IsExempt reports whether the error is a known-benign condition for the device.
func (p *Profile) IsExempt(e *common.RPCError) bool {
	for _, m := range p.exempt {
		if m.MatchError(e) {
			return true
		}
	}
	return false
}

// SubsystemNames delivers the SSH subsystem names to be tried, in order. A subsystem named
// by the ssh_subsystem_name parameter is tried first.
func (p *Profile) SubsystemNames() ([]string, error) {
	preferred, ok, err := p.params.String(ParamSSHSubsystemName)
	if err != nil {
		return nil, err
	}
	if !ok || preferred == "" {
		return append([]string(nil), p.subsystems...), nil
	}
	names := []string{preferred}
	for _, n := range p.subsystems {
		if n != preferred {
			names = append(names, n)
		}
	}
	return names, nil
}

// RequestAttrs delivers the envelope attributes with the namespaces parameter merged in,
// sorted by attribute name. It fails if the namespaces parameter is malformed.
func (p *Profile) RequestAttrs() ([]Attr, error) {
	attrs := p.EnvelopeAttrs()
	extra, err := p.params.Namespaces()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for prefix, uri := range extra {
		if _, ok := attrs[XmlnsAttr(prefix)]; !ok {
			attrs[XmlnsAttr(prefix)] = uri
		}
	}

	out := make([]Attr, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, Attr{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Attr is a single envelope attribute.
type Attr struct {
	Key   string
	Value string
}

// XmlnsAttr delivers the attribute name that declares prefix.
func XmlnsAttr(prefix string) string {
	if prefix == "" {
		return "xmlns"
	}
	return "xmlns:" + prefix
}
