// Package app assembles the download service from configuration.
package app
