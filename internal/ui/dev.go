//go:build dev

package ui

const isDev = true
