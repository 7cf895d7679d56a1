// Package models registers the built-in importable models with the core
// registry. Import this package to make them available.
package models

// Each model file uses init() to register its models.
