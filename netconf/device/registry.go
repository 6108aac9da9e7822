package device

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnknownVendor is reported when no profile constructor is registered for a vendor.
var ErrUnknownVendor = errors.New("unknown device vendor")

// Constructor builds a profile from the device parameters.
type Constructor func(params Params) *Profile

var registry = struct {
	sync.RWMutex
	ctors map[string]Constructor
}{ctors: make(map[string]Constructor)}

// Register makes a profile constructor available under the vendor name. Registering a
// vendor a second time replaces the previous constructor.
func Register(vendor string, ctor Constructor) {
	registry.Lock()
	defer registry.Unlock()
	registry.ctors[normalise(vendor)] = ctor
}

// New builds the profile registered for vendor. An empty vendor selects the default profile.
func New(vendor string, params Params) (*Profile, error) {
	registry.RLock()
	ctor, ok := registry.ctors[normalise(vendor)]
	registry.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownVendor, "%q", vendor)
	}
	return ctor(params), nil
}

// Vendors delivers the registered vendor names, sorted.
func Vendors() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.ctors))
	for n := range registry.ctors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default delivers a profile with no vendor customisation.
func Default() *Profile {
	return NewProfile(DefaultVendor, Dialect{}, nil)
}

// DialectConstructor delivers a Constructor that combines d with the defaults.
func DialectConstructor(vendor string, d Dialect) Constructor {
	return func(params Params) *Profile {
		return NewProfile(vendor, d, params)
	}
}

func normalise(vendor string) string {
	v := strings.ToLower(strings.TrimSpace(vendor))
	if v == "" {
		return DefaultVendor
	}
	return v
}
