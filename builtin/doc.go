// Package builtin provides the commands every bot instance ships with.
package builtin
