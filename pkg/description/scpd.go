package description

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// SCPDXMLNamespace is the namespace of UPnP service description documents.
const SCPDXMLNamespace = "urn:schemas-upnp-org:service-1-0"

// SCPD is the service description as described by section 2.5
// "Service description" of the UPnP Device Architecture.
type SCPD struct {
	XMLName        xml.Name            `xml:"scpd"`
	SpecVersion    SpecVersion         `xml:"specVersion"`
	Actions        []ActionDesc        `xml:"actionList>action"`
	StateVariables []StateVariableDesc `xml:"serviceStateTable>stateVariable"`
}

// ActionDesc is an <action> declaration. <argumentList> is optional:
// an action without parameters omits it entirely.
type ActionDesc struct {
	Name      string         `xml:"name"`
	Arguments []ArgumentDesc `xml:"argumentList>argument"`
}

// ArgumentDesc is an <argument> declaration. The <retval> element is
// optional and its presence (not its text content) marks the argument
// as the action's return value.
type ArgumentDesc struct {
	Name                 string        `xml:"name"`
	Direction            string        `xml:"direction"`
	Retval               *RetvalMarker `xml:"retval"`
	RelatedStateVariable string        `xml:"relatedStateVariable"`
}

// RetvalMarker records the presence of a <retval> element.
type RetvalMarker struct{}

// IsRetval reports whether the argument carries the return-value marker.
func (a *ArgumentDesc) IsRetval() bool {
	return a.Retval != nil
}

// StateVariableDesc is a <stateVariable> declaration. State variables
// define argument data types; this control point records them but does
// not resolve types beyond the name passthrough.
type StateVariableDesc struct {
	Name         string   `xml:"name"`
	SendEvents   string   `xml:"sendEvents,attr"`
	DataType     string   `xml:"dataType"`
	DefaultValue string   `xml:"defaultValue"`
	AllowedList  []string `xml:"allowedValueList>allowedValue"`
}

// ParseSCPD parses a service description document.
func ParseSCPD(data []byte) (*SCPD, error) {
	var scpd SCPD
	if err := xml.Unmarshal(data, &scpd); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedDescription, err)
	}
	scpd.clean()
	return &scpd, nil
}

// clean trims stray whitespace that deployed devices commonly emit.
func (s *SCPD) clean() {
	for i := range s.Actions {
		a := &s.Actions[i]
		a.Name = strings.TrimSpace(a.Name)
		for j := range a.Arguments {
			arg := &a.Arguments[j]
			arg.Name = strings.TrimSpace(arg.Name)
			arg.Direction = strings.TrimSpace(arg.Direction)
			arg.RelatedStateVariable = strings.TrimSpace(arg.RelatedStateVariable)
		}
	}
	for i := range s.StateVariables {
		v := &s.StateVariables[i]
		v.Name = strings.TrimSpace(v.Name)
		v.DataType = strings.TrimSpace(v.DataType)
		v.DefaultValue = strings.TrimSpace(v.DefaultValue)
	}
}
