// Package vk implements an HTTP client for the VK audio API.
// It covers the OAuth password-grant token endpoint (including captcha
// and phone-validation side-channels) and the audio.* method family,
// with typed response envelopes and LRU caching of listing results.
package vk
