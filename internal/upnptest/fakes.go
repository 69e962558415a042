package upnptest

import (
	"context"
	"fmt"
	"sync"

	"github.com/portfwd/upnp-go/pkg/soap"
)

// FakeFetcher serves canned description documents by URL.
type FakeFetcher struct {
	mu sync.Mutex

	// Documents maps absolute URLs to document bytes.
	Documents map[string][]byte

	// Errors maps absolute URLs to forced fetch failures. Checked
	// before Documents.
	Errors map[string]error

	// Fetched records the URLs requested, in order.
	Fetched []string
}

// NewFakeFetcher creates a FakeFetcher serving the given documents.
func NewFakeFetcher(documents map[string]string) *FakeFetcher {
	docs := make(map[string][]byte, len(documents))
	for url, doc := range documents {
		docs[url] = []byte(doc)
	}
	return &FakeFetcher{
		Documents: docs,
		Errors:    make(map[string]error),
	}
}

// Fetch returns the canned document for url.
func (f *FakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Fetched = append(f.Fetched, url)

	if err, ok := f.Errors[url]; ok {
		return nil, err
	}
	if doc, ok := f.Documents[url]; ok {
		return append([]byte(nil), doc...), nil
	}
	return nil, fmt.Errorf("upnptest: no document for %s", url)
}

// FetchCount returns how many fetches were made.
func (f *FakeFetcher) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Fetched)
}

// CallRecord captures one invocation received by FakeCaller.
type CallRecord struct {
	ControlURL  string
	ServiceType string
	Action      string
	Args        []soap.Arg
}

// CallResult is one scripted outcome for FakeCaller.Sequence.
type CallResult struct {
	Out map[string]string
	Err error
}

// FakeCaller records SOAP invocations and returns canned results.
type FakeCaller struct {
	mu sync.Mutex

	// Results maps action names to canned output maps.
	Results map[string]map[string]string

	// Errors maps action names to forced failures (e.g. *soap.FaultError).
	// Checked before Results.
	Errors map[string]error

	// Sequence maps action names to per-invocation outcomes, consumed in
	// order. Checked before Errors and Results; once exhausted the other
	// maps apply again.
	Sequence map[string][]CallResult

	// Calls records every invocation in order.
	Calls []CallRecord
}

// NewFakeCaller creates an empty FakeCaller. Unconfigured actions
// return an empty output map.
func NewFakeCaller() *FakeCaller {
	return &FakeCaller{
		Results:  make(map[string]map[string]string),
		Errors:   make(map[string]error),
		Sequence: make(map[string][]CallResult),
	}
}

// Call records the invocation and returns the canned result.
func (c *FakeCaller) Call(_ context.Context, controlURL, serviceType, action string, args []soap.Arg) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, CallRecord{
		ControlURL:  controlURL,
		ServiceType: serviceType,
		Action:      action,
		Args:        append([]soap.Arg(nil), args...),
	})

	if queue := c.Sequence[action]; len(queue) > 0 {
		next := queue[0]
		c.Sequence[action] = queue[1:]
		if next.Err != nil {
			return nil, next.Err
		}
		result := make(map[string]string, len(next.Out))
		for k, v := range next.Out {
			result[k] = v
		}
		return result, nil
	}

	if err, ok := c.Errors[action]; ok {
		return nil, err
	}
	if out, ok := c.Results[action]; ok {
		result := make(map[string]string, len(out))
		for k, v := range out {
			result[k] = v
		}
		return result, nil
	}
	return map[string]string{}, nil
}

// CallCount returns how many invocations were received.
func (c *FakeCaller) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

// LastCall returns the most recent invocation, or nil if none were made.
func (c *FakeCaller) LastCall() *CallRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Calls) == 0 {
		return nil
	}
	record := c.Calls[len(c.Calls)-1]
	return &record
}
