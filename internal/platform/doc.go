package platform

// Package platform contains OS integration glue: destination directory helpers
// and the best-effort "open in file explorer" capability.
