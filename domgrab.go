// Package domgrab extracts structured data from rendered HTML documents
// using declarative rules, and generates stable locators for elements a user
// picks so they can be fed back into new rules.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., htmlquery/, goquery/, rod/, sqlite/).
package domgrab
