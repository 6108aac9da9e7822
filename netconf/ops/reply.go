package ops

import (
	"encoding/xml"
	"sync"
	"sync/atomic"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/common"
	"github.com/damianoneill/ncops/netconf/device"
	"github.com/pkg/errors"
)

// ErrNoData is reported when a reply holding no data element is unmarshalled.
var ErrNoData = errors.New("rpc reply has no data")

// parsingHook extracts reply specific content from the root of a parsed rpc-reply.
// It runs after the error entries have been collected.
type parsingHook func(root *etree.Element, res *parseResult)

// parseResult is the outcome of parsing a reply. It is never modified once published.
type parseResult struct {
	errors   []*common.RPCError
	exempted []*common.RPCError
	ok       bool
	data     *etree.Element
}

// Reply wraps the raw text of an rpc-reply. The text is parsed on first access to its
// content; parsing happens once, also when the first accesses are concurrent.
type Reply struct {
	raw     string
	profile *device.Profile
	hook    parsingHook

	once   sync.Once
	result atomic.Pointer[parseResult]
}

// NewReply wraps raw. Errors matching an exemption of profile are not reported as errors.
// profile may be nil.
func NewReply(raw string, profile *device.Profile) *Reply {
	return newReply(raw, profile, nil)
}

func newReply(raw string, profile *device.Profile, hook parsingHook) *Reply {
	return &Reply{raw: raw, profile: profile, hook: hook}
}

// Raw delivers the reply text, as received.
func (r *Reply) Raw() string {
	return r.raw
}

// Parse parses the reply, if that has not already happened.
func (r *Reply) Parse() {
	r.once.Do(func() {
		r.result.Store(r.parse())
	})
}

// Parsed reports whether the reply has been parsed.
func (r *Reply) Parsed() bool {
	return r.result.Load() != nil
}

// Errors delivers the rpc-error entries of the reply, excluding any exempted by the device
// profile. A reply that cannot be parsed has a single malformed-message entry.
func (r *Reply) Errors() []*common.RPCError {
	return append([]*common.RPCError(nil), r.parsed().errors...)
}

// Exempted delivers the rpc-error entries that the device profile identified as benign.
func (r *Reply) Exempted() []*common.RPCError {
	return append([]*common.RPCError(nil), r.parsed().exempted...)
}

// OK reports whether the reply holds an ok element.
func (r *Reply) OK() bool {
	return r.parsed().ok
}

// Err delivers the first entry of error severity, or nil.
func (r *Reply) Err() error {
	for _, e := range r.parsed().errors {
		if e.IsError() {
			return e
		}
	}
	return nil
}

func (r *Reply) parsed() *parseResult {
	r.Parse()
	return r.result.Load()
}

func (r *Reply) parse() *parseResult {
	res := &parseResult{}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(r.raw); err != nil {
		res.errors = malformed(errors.Wrap(ErrMalformedReply, err.Error()))
		return res
	}
	root := doc.Root()
	if root == nil {
		res.errors = malformed(errors.Wrap(ErrMalformedReply, "no root element"))
		return res
	}
	if root.Tag != common.NameRPCReply.Local {
		res.errors = malformed(errors.Wrapf(ErrMalformedReply, "unexpected root element %s", root.Tag))
		return res
	}

	for _, el := range root.SelectElements("rpc-error") {
		e := common.NewRPCError(el)
		if r.profile != nil && r.profile.IsExempt(e) {
			res.exempted = append(res.exempted, e)
			continue
		}
		res.errors = append(res.errors, e)
	}
	res.ok = root.SelectElement("ok") != nil

	if r.hook != nil {
		r.hook(root, res)
	}
	return res
}

func malformed(cause error) []*common.RPCError {
	return []*common.RPCError{common.SyntheticRPCError(common.TagMalformedMessage, cause)}
}

// GetReply is the reply to a retrieval operation, adding the data element.
type GetReply struct {
	*Reply
}

// NewGetReply wraps raw as the reply to a retrieval operation.
func NewGetReply(raw string, profile *device.Profile) *GetReply {
	return &GetReply{Reply: newReply(raw, profile, dataHook)}
}

// dataHook captures the data element, unless errors are present.
func dataHook(root *etree.Element, res *parseResult) {
	if len(res.errors) == 0 {
		res.data = root.SelectElement("data")
	}
}

// Data delivers the data element of the reply, or nil if there is none or the reply
// carries errors. The element belongs to the reply and must not be modified.
func (r *GetReply) Data() *etree.Element {
	return r.parsed().data
}

// DataXML delivers the data element as text, with the namespace declarations it inherits from
// the reply. It delivers the empty string if there is no data.
func (r *GetReply) DataXML() string {
	data := r.Data()
	if data == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(detach(data))
	// Writes to memory do not fail.
	s, _ := doc.WriteToString()
	return s
}

// Unmarshal stores the reply data in result, which should be the address of either:
//   - a string, in which case it will hold the content of the data element, or
//   - a struct with xml tags.
//
// The first error entry of the reply, if any, is returned instead.
func (r *GetReply) Unmarshal(result interface{}) error {
	if err := r.Err(); err != nil {
		return err
	}
	text := r.DataXML()
	if text == "" {
		return ErrNoData
	}

	switch target := result.(type) {
	case *string:
		data := &Data{}
		if err := xml.Unmarshal([]byte(text), data); err != nil {
			return err
		}
		*target = data.Content
		return nil
	default:
		return xml.Unmarshal([]byte(text), &Data{Body: result})
	}
}

// detach copies el, declaring the namespaces that el inherits from its ancestors.
func detach(el *etree.Element) *etree.Element {
	cp := el.Copy()
	for p := el.Parent(); p != nil; p = p.Parent() {
		for _, a := range p.Attr {
			if a.Space != "xmlns" && !(a.Space == "" && a.Key == "xmlns") {
				continue
			}
			if cp.SelectAttr(a.FullKey()) == nil {
				cp.CreateAttr(a.FullKey(), a.Value)
			}
		}
	}
	return cp
}
