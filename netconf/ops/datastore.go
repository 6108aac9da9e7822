package ops

import (
	"net/url"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/common"
)

// datastoreCapabilities maps a datastore, or a url, to the capability the server must advertise
// for it to be used.
var datastoreCapabilities = map[string]string{
	common.CandidateCfg: ":candidate",
	common.StartupCfg:   ":startup",
	"url":               ":url",
}

// datastoreOrURL builds the tag element naming either a configuration datastore or a url.
// If caps is not empty, the server capability needed to use the datastore is checked.
func datastoreOrURL(op, tag, value string, caps []string) (*etree.Element, error) {
	el := etree.NewElement(tag)

	var key string
	switch value {
	case common.RunningCfg, common.CandidateCfg, common.StartupCfg:
		key = value
		el.CreateElement(value)
	default:
		u, err := url.Parse(value)
		if err != nil || !u.IsAbs() || (u.Host == "" && u.Path == "" && u.Opaque == "") {
			return nil, requestError(op, tag, err, "%q is neither a datastore nor a url", value)
		}
		key = "url"
		el.CreateElement("url").SetText(value)
	}

	if capability, ok := datastoreCapabilities[key]; ok && len(caps) > 0 && !common.SupportsCapability(caps, capability) {
		return nil, requestError(op, tag, nil, "%s requires the %s capability", value, capability)
	}
	return el, nil
}
