package device

import "github.com/damianoneill/ncops/netconf/common"

// Built-in vendor names.
const (
	DefaultVendor = "default"
	HuaweiVendor  = "huawei"
	NexusVendor   = "nexus"
)

// HuaweiDialect declares the base namespace as the default namespace of the envelope.
var HuaweiDialect = Dialect{
	Namespaces: map[string]string{"": common.NetconfNS},
}

// NexusDialect describes Cisco NX-OS devices.
var NexusDialect = Dialect{
	// NX-OS expects the base namespace in place of the base:1.0 capability.
	ReplaceCapabilities: map[string]string{common.CapBase10: common.NetconfNS},
	Namespaces: map[string]string{
		"nxos":         "http://www.cisco.com/nxos:1.0",
		"if":           "http://www.cisco.com/nxos:1.0:if_manager",
		"nfcli":        "http://www.cisco.com/nxos:1.0:nfcli",
		"vlan_mgr_cli": "http://www.cisco.com/nxos:1.0:vlan_mgr_cli",
	},
	// Reported even though the VLAN was created; the switch picks another unique name.
	ExemptErrors:   []string{"*VLAN with the same name exists*"},
	SubsystemNames: []string{"netconf", "xmlagent"},
}

func init() {
	Register(DefaultVendor, DialectConstructor(DefaultVendor, Dialect{}))
	Register(HuaweiVendor, DialectConstructor(HuaweiVendor, HuaweiDialect))
	Register(NexusVendor, DialectConstructor(NexusVendor, NexusDialect))
}
