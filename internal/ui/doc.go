// Package ui contains the Fyne desktop window. It collects a URL, a mode and
// a destination folder, runs one request at a time through a download.Executor
// and reports progress and the localized outcome.
package ui
