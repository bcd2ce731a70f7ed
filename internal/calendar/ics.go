// ABOUTME: Renders a user's events as an iCalendar (RFC 5545) feed
// ABOUTME: Built on arran4/golang-ical; one VEVENT per stored event

package calendar

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/resonatr/studio/internal/store"
)

// ProductID identifies resonatr as the feed producer.
const ProductID = "-//resonatr//studio//EN"

// Custom properties carrying fields that have no standard iCalendar slot.
const (
	PropertyStatus   = ical.ComponentProperty("X-RESONATR-STATUS")
	PropertyPlatform = ical.ComponentProperty("X-RESONATR-PLATFORM")
)

// uidSuffix scopes event IDs into globally unique iCalendar UIDs.
const uidSuffix = "@resonatr"

// Feed renders events as a published calendar named name. stamp becomes DTSTAMP on
// every event.
func Feed(name string, events []*store.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, e := range events {
		ve := cal.AddEvent(e.ID + uidSuffix)
		ve.SetDtStampTime(stamp.UTC())
		ve.SetCreatedTime(e.CreatedAt.UTC())
		ve.SetModifiedAt(e.UpdatedAt.UTC())
		ve.SetStartAt(e.Start.UTC())
		ve.SetEndAt(e.End.UTC())
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetProperty(ical.ComponentPropertyStatus, icalStatus(e.Status))
		ve.SetProperty(ical.ComponentPropertyColor, e.Color)
		ve.SetProperty(PropertyStatus, e.Status)
		if e.Platform != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, e.Platform)
			ve.SetProperty(PropertyPlatform, e.Platform)
		}
	}

	return cal.Serialize()
}

// icalStatus maps an event status onto the closest VEVENT STATUS value.
func icalStatus(status string) string {
	if status == store.StatusMissed {
		return string(ical.ObjectStatusCancelled)
	}
	return string(ical.ObjectStatusConfirmed)
}
