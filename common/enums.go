// Package common keeps enums shared by configuration and the compiler
// packages, so that neither has to import the other.
package common

// Specification of dark mode strategy.
// ENUM(class, media)
type DarkMode int

// UsesClass reports whether dark variant is expressed with an ancestor class
// selector rather than a media query.
func (d DarkMode) UsesClass() bool {
	return d == DarkModeClass
}
