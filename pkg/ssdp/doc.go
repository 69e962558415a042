// Package ssdp discovers UPnP devices with SSDP M-SEARCH queries.
//
// A search multicasts one HTTP-over-UDP request and collects the
// unicast responses that arrive within the listen window. Each
// response carries the LOCATION URL of the device's description
// document, which pkg/model turns into a full device model.
package ssdp
