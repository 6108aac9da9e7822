package device

import (
	"github.com/pkg/errors"
)

// Device parameters understood by this library. Any other key is carried but ignored.
const (
	// ParamSSHSubsystemName names the SSH subsystem that should be tried first when
	// connecting to the device.
	ParamSSHSubsystemName = "ssh_subsystem_name"
	// ParamNamespaces is a mapping of prefix to namespace URI that is added to every
	// request envelope.
	ParamNamespaces = "namespaces"
)

// ErrInvalidParam is reported when a device parameter holds a value of the wrong shape.
var ErrInvalidParam = errors.New("invalid device parameter")

// Params holds the vendor tunable options supplied when a profile is constructed.
type Params map[string]interface{}

// String delivers the string value of key. The boolean result is false if the key is absent.
func (p Params) String(key string) (string, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, errors.Wrapf(ErrInvalidParam, "%s: expected string, got %T", key, v)
	}
	return s, true, nil
}

// Namespaces delivers the prefix to URI mapping held by the namespaces parameter.
// Values decoded from YAML or JSON arrive as map[string]interface{}, and are accepted as long
// as every value is a string.
func (p Params) Namespaces() (map[string]string, error) {
	v, ok := p[ParamNamespaces]
	if !ok || v == nil {
		return nil, nil
	}
	switch ns := v.(type) {
	case map[string]string:
		return copyStrings(ns), nil
	case map[string]interface{}:
		out := make(map[string]string, len(ns))
		for k, uri := range ns {
			s, ok := uri.(string)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidParam, "%s[%s]: expected string, got %T", ParamNamespaces, k, uri)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, errors.Wrapf(ErrInvalidParam, "%s: expected mapping, got %T", ParamNamespaces, v)
	}
}

func (p Params) copy() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
