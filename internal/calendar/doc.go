// Package calendar exports events for subscription from external calendar apps.
//
// Feed renders one VEVENT per stored event. Status maps to STATUS (missed becomes
// CANCELLED), color to COLOR, and platform to CATEGORIES. Fields without a standard
// slot are carried in X-RESONATR-* properties.
package calendar
