package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
)

// EnvelopeNS is the SOAP envelope namespace.
const EnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// EncodingStyle is the SOAP encoding style used by UPnP control requests.
const EncodingStyle = "http://schemas.xmlsoap.org/soap/encoding/"

// Envelope errors.
var (
	ErrMalformedResponse = errors.New("malformed SOAP response")
	ErrInvalidXMLName    = errors.New("invalid XML element name")
)

// Arg is one named input argument. Arguments are encoded in slice order,
// preserving the action's declared argument order.
type Arg struct {
	Name  string
	Value string
}

// FaultError is a device-side SOAP fault carrying the UPnP error code
// and description verbatim.
type FaultError struct {
	// Code is the UPnP error code (e.g. 718 ConflictInMappingEntry).
	Code int

	// Description is the device-supplied error description.
	Description string
}

// Error returns a single-line message naming the remote code and description.
func (e *FaultError) Error() string {
	return fmt.Sprintf("UPnP error %d: %s", e.Code, e.Description)
}

// encode writes the argument as an XML element. The value is escaped;
// the name must be a valid XML element name.
func (a *Arg) encode(buf *bytes.Buffer) error {
	if !validXMLName(a.Name) {
		return fmt.Errorf("%w: argument %q", ErrInvalidXMLName, a.Name)
	}
	buf.WriteByte('<')
	buf.WriteString(a.Name)
	buf.WriteByte('>')
	if err := xml.EscapeText(buf, []byte(a.Value)); err != nil {
		return err
	}
	buf.WriteString("</")
	buf.WriteString(a.Name)
	buf.WriteByte('>')
	return nil
}

// EncodeRequest builds the SOAP request envelope for invoking action in
// the serviceType namespace with the given ordered input arguments.
func EncodeRequest(serviceType, action string, args []Arg) ([]byte, error) {
	if !validXMLName(action) {
		return nil, fmt.Errorf("%w: action %q", ErrInvalidXMLName, action)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<s:Envelope xmlns:s="` + EnvelopeNS + `" s:encodingStyle="` + EncodingStyle + `">`)
	buf.WriteString(`<s:Body>`)
	buf.WriteString(`<u:` + action + ` xmlns:u="`)
	if err := xml.EscapeText(&buf, []byte(serviceType)); err != nil {
		return nil, err
	}
	buf.WriteString(`">`)
	for i := range args {
		if err := args[i].encode(&buf); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`</u:` + action + `>`)
	buf.WriteString(`</s:Body>`)
	buf.WriteString(`</s:Envelope>`)
	return buf.Bytes(), nil
}

// responseEnvelope mirrors the SOAP response document. The body holds
// either a Fault or the action response element (matched by ",any").
type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	Fault    *faultElem    `xml:"Fault"`
	Response *responseElem `xml:",any"`
}

type faultElem struct {
	FaultCode   string      `xml:"faultcode"`
	FaultString string      `xml:"faultstring"`
	Detail      faultDetail `xml:"detail"`
}

type faultDetail struct {
	UPnPError upnpError `xml:"UPnPError"`
}

type upnpError struct {
	Code        int    `xml:"errorCode"`
	Description string `xml:"errorDescription"`
}

type responseElem struct {
	XMLName xml.Name
	Args    []argElem `xml:",any"`
}

type argElem struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// DecodeResponse parses a SOAP response body. On success it returns the
// output arguments of the response element as a flat name→value map.
// A SOAP fault is returned as *FaultError.
func DecodeResponse(data []byte) (map[string]string, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	if env.Body.Fault != nil {
		return nil, &FaultError{
			Code:        env.Body.Fault.Detail.UPnPError.Code,
			Description: env.Body.Fault.Detail.UPnPError.Description,
		}
	}

	if env.Body.Response == nil {
		return nil, fmt.Errorf("%w: no response element in body", ErrMalformedResponse)
	}

	out := make(map[string]string, len(env.Body.Response.Args))
	for _, arg := range env.Body.Response.Args {
		out[arg.XMLName.Local] = arg.Value
	}
	return out, nil
}

// validXMLName reports whether s is usable as an XML element name.
// This is a conservative check covering the names UPnP descriptions use.
func validXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
