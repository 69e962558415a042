package soap

import (
	"errors"
	"strings"
	"testing"
)

const wanIPConnectionNS = "urn:schemas-upnp-org:service:WANIPConnection:1"

func TestEncodeRequest(t *testing.T) {
	args := []Arg{
		{Name: "NewRemoteHost", Value: ""},
		{Name: "NewExternalPort", Value: "8080"},
		{Name: "NewProtocol", Value: "TCP"},
	}

	data, err := EncodeRequest(wanIPConnectionNS, "DeletePortMapping", args)
	if err != nil {
		t.Fatalf("EncodeRequest failed: %v", err)
	}

	body := string(data)
	for _, want := range []string{
		`<u:DeletePortMapping xmlns:u="` + wanIPConnectionNS + `">`,
		`<NewRemoteHost></NewRemoteHost>`,
		`<NewExternalPort>8080</NewExternalPort>`,
		`<NewProtocol>TCP</NewProtocol>`,
		`</u:DeletePortMapping>`,
		`<s:Body>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("request missing %q:\n%s", want, body)
		}
	}

	// Declaration order must be preserved.
	if strings.Index(body, "NewRemoteHost") > strings.Index(body, "NewExternalPort") {
		t.Error("argument order not preserved")
	}
}

func TestEncodeRequestEscapesValues(t *testing.T) {
	data, err := EncodeRequest(wanIPConnectionNS, "AddPortMapping", []Arg{
		{Name: "NewPortMappingDescription", Value: `a <b> & "c"`},
	})
	if err != nil {
		t.Fatalf("EncodeRequest failed: %v", err)
	}

	body := string(data)
	if strings.Contains(body, "a <b>") {
		t.Errorf("value not escaped:\n%s", body)
	}
	if !strings.Contains(body, "a &lt;b&gt; &amp;") {
		t.Errorf("expected escaped value:\n%s", body)
	}
}

func TestEncodeRequestRejectsInvalidNames(t *testing.T) {
	if _, err := EncodeRequest(wanIPConnectionNS, "Bad Action", nil); !errors.Is(err, ErrInvalidXMLName) {
		t.Errorf("invalid action name: got %v, want ErrInvalidXMLName", err)
	}

	_, err := EncodeRequest(wanIPConnectionNS, "Good", []Arg{{Name: "bad<name", Value: "x"}})
	if !errors.Is(err, ErrInvalidXMLName) {
		t.Errorf("invalid argument name: got %v, want ErrInvalidXMLName", err)
	}
}

func TestDecodeResponse(t *testing.T) {
	body := `<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <u:GetExternalIPAddressResponse xmlns:u="` + wanIPConnectionNS + `">
      <NewExternalIPAddress>203.0.113.7</NewExternalIPAddress>
    </u:GetExternalIPAddressResponse>
  </s:Body>
</s:Envelope>`

	out, err := DecodeResponse([]byte(body))
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}

	if out["NewExternalIPAddress"] != "203.0.113.7" {
		t.Errorf("NewExternalIPAddress: got %q", out["NewExternalIPAddress"])
	}
}

func TestDecodeResponseEmptySuccess(t *testing.T) {
	body := `<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <u:AddPortMappingResponse xmlns:u="` + wanIPConnectionNS + `"></u:AddPortMappingResponse>
  </s:Body>
</s:Envelope>`

	out, err := DecodeResponse([]byte(body))
	if err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output map, got %v", out)
	}
}

func TestDecodeResponseFault(t *testing.T) {
	body := `<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>
    <s:Fault>
      <faultcode>s:Client</faultcode>
      <faultstring>UPnPError</faultstring>
      <detail>
        <UPnPError xmlns="urn:schemas-upnp-org:control-1-0">
          <errorCode>718</errorCode>
          <errorDescription>ConflictInMappingEntry</errorDescription>
        </UPnPError>
      </detail>
    </s:Fault>
  </s:Body>
</s:Envelope>`

	_, err := DecodeResponse([]byte(body))
	if err == nil {
		t.Fatal("expected fault error")
	}

	var fault *FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("expected *FaultError, got %T: %v", err, err)
	}
	if fault.Code != 718 {
		t.Errorf("Code: got %d, want 718", fault.Code)
	}
	if fault.Description != "ConflictInMappingEntry" {
		t.Errorf("Description: got %q", fault.Description)
	}
	if got := fault.Error(); got != "UPnP error 718: ConflictInMappingEntry" {
		t.Errorf("Error(): got %q", got)
	}
}

func TestDecodeResponseMalformed(t *testing.T) {
	if _, err := DecodeResponse([]byte("<nope")); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("got %v, want ErrMalformedResponse", err)
	}

	empty := `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body></s:Body></s:Envelope>`
	if _, err := DecodeResponse([]byte(empty)); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("empty body: got %v, want ErrMalformedResponse", err)
	}
}
