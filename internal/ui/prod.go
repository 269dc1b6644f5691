//go:build !dev

package ui

const isDev = false
