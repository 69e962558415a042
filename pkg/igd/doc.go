// Package igd drives the port-mapping services of an Internet Gateway
// Device. It glues the generic layers together: ssdp finds the gateway,
// model resolves its WAN connection service, and the Gateway methods
// invoke the standard port-mapping actions on it.
package igd
