// ABOUTME: Per-owner dashboard summary combining idea and event reads
// ABOUTME: Cached in a viewcache and rebuilt after the owner's next mutation

package content

import (
	"context"

	"github.com/resonatr/studio/internal/auth"
	"github.com/resonatr/studio/internal/store"
	"github.com/resonatr/studio/internal/viewcache"
)

// RecentIdeasLimit is how many of the newest ideas the dashboard shows.
const RecentIdeasLimit = 4

// Summary is the dashboard read view for one owner.
type Summary struct {
	IdeaCount    int
	StageCounts  map[string]int
	RecentIdeas  []*store.Idea
	RecentEvents []*store.Event
	Day          string // local date the recent-events window was computed for
}

// Dashboard builds Summary views. The idea and event services stay independent;
// only the dashboard reads from both.
type Dashboard struct {
	ideas  *IdeaService
	events *EventService
	cache  *viewcache.Cache[*Summary]
}

// NewDashboard creates a Dashboard. The services should invalidate cache on writes.
func NewDashboard(ideas *IdeaService, events *EventService, cache *viewcache.Cache[*Summary]) *Dashboard {
	return &Dashboard{ideas: ideas, events: events, cache: cache}
}

// Summary returns the caller's dashboard, from cache when fresh.
func (d *Dashboard) Summary(ctx context.Context) (*Summary, error) {
	id, err := auth.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	today := d.events.today()
	if cached, ok := d.cache.Get(id.UserID); ok && cached.Day == today {
		return cached, nil
	}

	gen := d.cache.Generation(id.UserID)
	summary := &Summary{Day: today}
	if summary.IdeaCount, err = d.ideas.Count(ctx); err != nil {
		return nil, err
	}
	if summary.StageCounts, err = d.ideas.CountByStage(ctx); err != nil {
		return nil, err
	}
	if summary.RecentIdeas, err = d.ideas.List(ctx, IdeaFilter{Limit: RecentIdeasLimit}); err != nil {
		return nil, err
	}
	if summary.RecentEvents, err = d.events.ListRecentAroundToday(ctx); err != nil {
		return nil, err
	}

	// A write by this owner during the reads bumps the generation; the summary is
	// still returned but not cached.
	d.cache.SetIfUnchanged(id.UserID, gen, summary)
	return summary, nil
}
