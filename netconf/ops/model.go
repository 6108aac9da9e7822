package ops

import "encoding/xml"

// Namespace binds a prefix used by an xpath expression to its URI.
type Namespace struct {
	ID   string
	Path string
}

// Data is used to unmarshal the data element of a reply into a caller supplied value.
type Data struct {
	XMLName xml.Name    `xml:"data"`
	Body    interface{} `xml:",any"`
	Content string      `xml:",innerxml"`
}

// Filter types.
const (
	SubtreeFilterType = "subtree"
	XPathFilterType   = "xpath"
)

// MonitoringNS is the namespace of the ietf-netconf-monitoring module.
const MonitoringNS = "urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring"

// Schema describes a data model schema supported by the device.
type Schema struct {
	Identifier string `xml:"identifier"`
	Version    string `xml:"version"`
	Format     string `xml:"format"`
	Namespace  string `xml:"namespace"`
	Location   string `xml:"location"`
}

// NetconfState holds the schemas section of the device's netconf-state.
type NetconfState struct {
	XMLName xml.Name `xml:"urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring netconf-state"`
	Schemas struct {
		Schema []Schema `xml:"schema"`
	} `xml:"schemas"`
}

// GetSchemaReq is the get-schema rpc.
type GetSchemaReq struct {
	XMLName xml.Name `xml:"urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring get-schema"`
	ID      string   `xml:"identifier"`
	Version string   `xml:"version,omitempty"`
	Format  string   `xml:"format,omitempty"`
}
