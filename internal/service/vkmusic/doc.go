// Package vkmusic implements the audio download pipeline and the
// search, listing and recommendation operations on top of the VK client.
package vkmusic
