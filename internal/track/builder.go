// Package track derives an analytics event from a request snapshot. This is
// the construction half of the pipeline; delivery lives in the amplitude
// package.
package track

import (
	"fmt"
	"time"

	"github.com/amptrack/amptrack/internal/config"
	"github.com/amptrack/amptrack/internal/device"
	"github.com/amptrack/amptrack/internal/event"
	"github.com/amptrack/amptrack/internal/geo"
	"github.com/amptrack/amptrack/internal/request"
)

// Builder constructs events from request snapshots. Both enrichment
// collaborators are optional: a nil geo provider or device parser simply
// leaves those fields out of the event.
type Builder struct {
	cfg     *config.Config
	geo     geo.Provider
	devices device.Parser
	now     func() time.Time
}

// NewBuilder creates a Builder over the validated configuration.
func NewBuilder(cfg *config.Config, geoProvider geo.Provider, devices device.Parser) *Builder {
	return &Builder{
		cfg:     cfg,
		geo:     geoProvider,
		devices: devices,
		now:     time.Now,
	}
}

// Build derives one event from snap. The overrides map may replace the event
// type, supply any of the marketing passthrough fields, and merge extra keys
// into event_properties via an "event_properties" sub-map. Build never fails:
// absent collaborators and anonymous or sessionless requests produce
// omitted, empty, or nil fields.
func (b *Builder) Build(snap request.Info, overrides map[string]any) event.Event {
	ip := snap.ClientIP()
	urlName := snap.RouteName
	if urlName == "" {
		// Route resolution failed; carry the raw path instead.
		urlName = snap.Path
	}

	ev := event.Event{
		"event_type": event.PageView,
		"time":       b.now().UnixMilli(),
		"ip":         ip,
		"language":   snap.Language,
	}

	if snap.DeviceID != "" {
		ev["device_id"] = snap.DeviceID
	} else {
		ev["device_id"] = nil
	}
	if snap.SessionID != 0 {
		ev["session_id"] = snap.SessionID
	} else {
		ev["session_id"] = nil
	}
	if snap.User != nil {
		ev["user_id"] = fmt.Sprintf("%05d", snap.User.ID)
	}

	props := map[string]any{
		"url":      snap.Path,
		"url_name": urlName,
		"method":   snap.Method,
		"params":   map[string][]string(snap.Query),
	}
	if len(snap.PathParams) > 0 {
		props["kwargs"] = snap.PathParams
	}
	ev["event_properties"] = props

	ev["user_properties"] = b.userProperties(snap)
	ev["groups"] = b.groups(snap)

	if b.devices != nil {
		if d := b.devices.Parse(snap.UserAgent); d != (device.Details{}) {
			ev["os_name"] = d.OSName
			ev["os_version"] = d.OSVersion
			ev["platform"] = d.Platform
			ev["device_manufacturer"] = d.Manufacturer
			ev["device_model"] = d.Model
		}
	}
	if b.geo != nil && ip != "" {
		if loc, ok := b.geo.Lookup(ip); ok {
			ev["country"] = loc.Country
			ev["city"] = loc.City
			ev["region"] = loc.Region
			ev["location_lat"] = loc.Lat
			ev["location_lng"] = loc.Lng
		}
	}

	for _, key := range event.PassthroughKeys {
		ev[key] = nil
	}
	for key, value := range overrides {
		if key == "event_properties" {
			if extra, ok := value.(map[string]any); ok {
				for pk, pv := range extra {
					props[pk] = pv
				}
			}
			continue
		}
		ev[key] = value
	}

	return ev
}

func (b *Builder) userProperties(snap request.Info) map[string]any {
	if !b.cfg.IncludeUserData || snap.User == nil {
		return map[string]any{}
	}
	u := snap.User
	return map[string]any{
		"username":     u.Username,
		"email":        u.Email,
		"full_name":    u.FullName,
		"is_staff":     u.Staff,
		"is_superuser": u.Superuser,
		"last_login":   isoOrEmpty(u.LastLogin),
		"date_joined":  isoOrEmpty(u.DateJoined),
	}
}

func (b *Builder) groups(snap request.Info) []string {
	if !b.cfg.IncludeGroupData || snap.User == nil {
		return []string{}
	}
	if snap.User.Groups == nil {
		return []string{}
	}
	return snap.User.Groups
}

func isoOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
