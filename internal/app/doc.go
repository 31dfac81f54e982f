// Package app wires the command layer to the VK client and the audio service.
// Each executor builds the components a command needs, runs it, and reports
// the outcome through the logger.
package app
