package ops

import (
	"encoding/xml"
	"reflect"
	"strings"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/device"
	"github.com/pkg/errors"
)

// Filter selects the portion of configuration or state returned by a retrieval operation.
// A Filter is validated when the request that carries it is built.
type Filter struct {
	kind    string
	content interface{}
	xpath   string
	nslist  []Namespace
}

// SubtreeFilter defines a subtree filter. content may be:
//   - a string holding an xml fragment,
//   - an *etree.Element, which is copied, or
//   - a struct with xml tags, which is marshalled.
func SubtreeFilter(content interface{}) *Filter {
	return &Filter{kind: SubtreeFilterType, content: content}
}

// XPathFilter defines an xpath filter, declaring the namespace prefixes used by the expression.
func XPathFilter(xpath string, nslist ...Namespace) *Filter {
	return &Filter{kind: XPathFilterType, xpath: xpath, nslist: nslist}
}

// Type delivers the filter type, "subtree" or "xpath".
func (f *Filter) Type() string {
	return f.kind
}

func (f *Filter) build(op string) (*etree.Element, error) {
	el := etree.NewElement("filter")
	el.CreateAttr("type", f.kind)

	switch f.kind {
	case XPathFilterType:
		if strings.TrimSpace(f.xpath) == "" {
			return nil, requestError(op, "filter", nil, "empty xpath expression")
		}
		for _, ns := range f.nslist {
			if ns.ID == "" || ns.Path == "" {
				return nil, requestError(op, "filter", nil, "incomplete namespace %q=%q", ns.ID, ns.Path)
			}
			el.CreateAttr(device.XmlnsAttr(ns.ID), ns.Path)
		}
		el.CreateAttr("select", f.xpath)
	default:
		children, err := fragment(f.content)
		if err != nil {
			return nil, requestError(op, "filter", err, "%v", err)
		}
		if len(children) == 0 {
			return nil, requestError(op, "filter", nil, "empty subtree")
		}
		for _, c := range children {
			el.AddChild(c)
		}
	}
	return el, nil
}

// fragment delivers the elements described by content.
func fragment(content interface{}) ([]*etree.Element, error) {
	var text string
	switch v := content.(type) {
	case nil:
		return nil, nil
	case *etree.Element:
		if v == nil {
			return nil, nil
		}
		return []*etree.Element{v.Copy()}, nil
	case string:
		text = v
	default:
		b, err := marshalStruct(v)
		if err != nil {
			return nil, err
		}
		text = string(b)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString("<fragment>" + text + "</fragment>"); err != nil {
		return nil, err
	}
	return doc.Root().ChildElements(), nil
}

// marshalStruct marshals v, which must be a struct or a pointer to one.
func marshalStruct(v interface{}) ([]byte, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, errors.Errorf("%T is not a string, element or struct", v)
	}
	return xml.Marshal(v)
}
