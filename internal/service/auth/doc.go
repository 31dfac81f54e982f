// Package auth implements the interactive token retrieval flow.
// It drives the OAuth password grant and answers the captcha and
// second-factor side-channels through pluggable handlers, by default
// prompting on the console and optionally presenting captchas
// in a browser window.
package auth
