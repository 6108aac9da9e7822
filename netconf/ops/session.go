package ops

import (
	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/client"
)

// OpSession represents a Netconf Operations OpSession
type OpSession interface {
	client.Session

	// Get issues a get request with an optional filter.
	Get(filter *Filter) (*GetReply, error)

	// GetConfig issues a get-config request against the source datastore or url, with an optional filter.
	GetConfig(source string, filter *Filter) (*GetReply, error)

	// Dispatch issues the rpc defined by command, with an optional source and filter.
	// See (*Dispatch).Request for the supported command types.
	Dispatch(command interface{}, source string, filter *Filter) (*GetReply, error)

	// SendCommand submits a complete rpc element verbatim, and delivers the parsed reply document.
	SendCommand(command *etree.Element) (*etree.Document, error)

	// GetSubtree issues a GET request, with the supplied subtree filter and stores the response in the result, which
	// should be the address of either:
	// - a string, in which case it will hold the response body, or
	// - a struct with xml tags.
	GetSubtree(filter interface{}, result interface{}) error

	// GetXpath issues a GET request, with the supplied xpath filter and namespace list and stores the response in the result.
	GetXpath(xpath string, nslist []Namespace, result interface{}) error

	// GetConfigSubtree issues a GET-CONFIG request, with the supplied subtree filter and source, and stores the
	// response in the result.
	GetConfigSubtree(filter interface{}, source string, result interface{}) error

	// GetConfigXpath issues a GET-CONFIG request, with the supplied xpath filter, source and namespace list and stores the
	// response in the result.
	GetConfigXpath(xpath string, nslist []Namespace, source string, result interface{}) error

	// GetSchemas returns the schemas supported by the device.
	GetSchemas() ([]Schema, error)

	// GetSchema returns the text of the schema identified by id and the optional version, in the
	// optional format, e.g. "yang".
	GetSchema(id, version, format string) (string, error)
}

type sImpl struct {
	client.Session
}

// NewOpSession delivers an OpSession that issues operations via an established session.
func NewOpSession(s client.Session) OpSession {
	return &sImpl{Session: s}
}

func (s *sImpl) Close() {
	s.Session.Close()
}

func (s *sImpl) Get(filter *Filter) (*GetReply, error) {
	return NewGet(s.Session).Request(filter)
}

func (s *sImpl) GetConfig(source string, filter *Filter) (*GetReply, error) {
	return NewGetConfig(s.Session).Request(source, filter)
}

func (s *sImpl) Dispatch(command interface{}, source string, filter *Filter) (*GetReply, error) {
	return NewDispatch(s.Session).Request(command, source, filter)
}

func (s *sImpl) SendCommand(command *etree.Element) (*etree.Document, error) {
	return NewSendCommand(s.Session).Request(command)
}

func (s *sImpl) GetSubtree(filter, result interface{}) error {
	reply, err := s.Get(subtree(filter))
	return unmarshal(reply, err, result)
}

func (s *sImpl) GetXpath(xpath string, nslist []Namespace, result interface{}) error {
	reply, err := s.Get(XPathFilter(xpath, nslist...))
	return unmarshal(reply, err, result)
}

func (s *sImpl) GetConfigSubtree(filter interface{}, source string, result interface{}) error {
	reply, err := s.GetConfig(source, subtree(filter))
	return unmarshal(reply, err, result)
}

func (s *sImpl) GetConfigXpath(xpath string, nslist []Namespace, source string, result interface{}) error {
	var filter *Filter
	if xpath != "" {
		filter = XPathFilter(xpath, nslist...)
	}
	reply, err := s.GetConfig(source, filter)
	return unmarshal(reply, err, result)
}

func (s *sImpl) GetSchemas() ([]Schema, error) {
	state := &NetconfState{}
	err := s.GetSubtree(`<netconf-state xmlns="`+MonitoringNS+`"><schemas/></netconf-state>`, state)
	if err != nil {
		return nil, err
	}
	return state.Schemas.Schema, nil
}

func (s *sImpl) GetSchema(id, version, format string) (string, error) {
	if id == "" {
		return "", requestError("get-schema", "identifier", nil, "empty identifier")
	}
	reply, err := s.Dispatch(&GetSchemaReq{ID: id, Version: version, Format: format}, "", nil)
	if err != nil {
		return "", err
	}
	if err = reply.Err(); err != nil {
		return "", err
	}
	data := reply.Data()
	if data == nil {
		return "", ErrNoData
	}
	return data.Text(), nil
}

func subtree(filter interface{}) *Filter {
	if filter == nil {
		return nil
	}
	return SubtreeFilter(filter)
}

func unmarshal(reply *GetReply, err error, result interface{}) error {
	if err != nil {
		return err
	}
	return reply.Unmarshal(result)
}
