package model

// Package model defines domain data structures shared across the app: download
// requests and results, output modes, the classified error taxonomy, progress
// reports, and the UI-side request status. Values are plain structs so they can
// be passed between the orchestrator, fetch backends, and the UI without locks.
