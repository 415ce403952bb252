// Package playback starts media on a cast device.
//
// Player is the actuator contract; Play runs connect, set-volume and load in
// order and stops at the first failure. Chromecast implements Player with
// go-chromecast.
package playback
