package ssdp

import (
	"errors"
	"strings"
	"testing"
)

const sampleResponse = "HTTP/1.1 200 OK\r\n" +
	"CACHE-CONTROL: max-age=120\r\n" +
	"ST: urn:schemas-upnp-org:device:InternetGatewayDevice:1\r\n" +
	"USN: uuid:824ff22b-8c7d-41c5-a131-44f534e12555::urn:schemas-upnp-org:device:InternetGatewayDevice:1\r\n" +
	"EXT:\r\n" +
	"SERVER: MiniUPnPd/2.3.0 UPnP/1.1\r\n" +
	"LOCATION: http://192.168.1.1:49152/rootDesc.xml\r\n" +
	"\r\n"

func TestParseResponse(t *testing.T) {
	resp, err := ParseResponse([]byte(sampleResponse), "192.168.1.1:1900")
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}

	if resp.Addr != "192.168.1.1:1900" {
		t.Errorf("Addr: got %q", resp.Addr)
	}
	if resp.Location != "http://192.168.1.1:49152/rootDesc.xml" {
		t.Errorf("Location: got %q", resp.Location)
	}
	if resp.ST != TargetInternetGatewayDevice1 {
		t.Errorf("ST: got %q", resp.ST)
	}
	if resp.Server != "MiniUPnPd/2.3.0 UPnP/1.1" {
		t.Errorf("Server: got %q", resp.Server)
	}
	if got := resp.UUID(); got != "824ff22b-8c7d-41c5-a131-44f534e12555" {
		t.Errorf("UUID: got %q", got)
	}
	if resp.Headers.Get("Cache-Control") != "max-age=120" {
		t.Errorf("Headers: got %v", resp.Headers)
	}
}

func TestParseResponseMissingLocation(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nST: upnp:rootdevice\r\nUSN: uuid:x\r\n\r\n"
	if _, err := ParseResponse([]byte(raw), "192.168.1.1:1900"); !errors.Is(err, ErrMissingLocation) {
		t.Errorf("got %v, want ErrMissingLocation", err)
	}
}

func TestParseResponseNotHTTP(t *testing.T) {
	if _, err := ParseResponse([]byte("NOTIFY * HTTP/1.1\r\n\r\n"), "x"); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("notify: got %v, want ErrMalformedResponse", err)
	}
	if _, err := ParseResponse([]byte("garbage"), "x"); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("garbage: got %v, want ErrMalformedResponse", err)
	}
}

func TestParseResponseNon200(t *testing.T) {
	raw := "HTTP/1.1 503 Unavailable\r\nLOCATION: http://x/\r\n\r\n"
	if _, err := ParseResponse([]byte(raw), "x"); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("got %v, want ErrMalformedResponse", err)
	}
}

func TestResponseUUIDWithoutPrefix(t *testing.T) {
	r := &Response{USN: "uuid:abc"}
	if got := r.UUID(); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestBuildSearchRequest(t *testing.T) {
	request := string(buildSearchRequest(TargetRootDevice, 2))

	for _, want := range []string{
		"M-SEARCH * HTTP/1.1\r\n",
		"HOST: 239.255.255.250:1900\r\n",
		`MAN: "ssdp:discover"` + "\r\n",
		"MX: 2\r\n",
		"ST: upnp:rootdevice\r\n",
	} {
		if !strings.Contains(request, want) {
			t.Errorf("request missing %q:\n%s", want, request)
		}
	}
	if !strings.HasSuffix(request, "\r\n\r\n") {
		t.Error("request must end with a blank line")
	}
}
