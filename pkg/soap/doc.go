// Package soap implements the SOAP-over-HTTP transport used to invoke
// UPnP actions on a service's control URL.
//
// The wire surface is deliberately narrow: Client.Call posts one action
// request and decodes either the response element's output arguments
// into a flat name→value map, or a device-side fault into a FaultError
// carrying the UPnP error code and description verbatim. Calls are never
// retried; UPnP actions are not assumed idempotent.
package soap
