// Package sensor reads motion events from the Nature Remo cloud API.
//
// Source is the narrow contract the watcher depends on; Client implements it
// with GET /1/devices and reports the newest motion ("mo") event of a device.
package sensor
