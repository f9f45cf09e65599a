package event

// Event is a single analytics record keyed per the Amplitude HTTP API v2.
// Values are strings, numbers, booleans, nil, lists, or nested mappings.
type Event map[string]any

// PageView is the event type recorded for ordinary request interception.
const PageView = "Page view"

// PassthroughKeys are the marketing and commerce fields the Amplitude API
// accepts verbatim. Callers may supply them via the overrides map; they
// default to nil and are stripped by Sanitize.
var PassthroughKeys = []string{
	"app_version",
	"carrier",
	"dma",
	"price",
	"quantity",
	"revenue",
	"productId",
	"revenueType",
	"idfa",
	"idfv",
	"adid",
	"android_id",
	"event_id",
	"insert_id",
}

// Sanitize returns a copy of the event with empty values removed at the top
// level and within each directly-nested mapping. A value is empty when it is
// nil, "", an empty list, or an empty mapping. Mappings nested deeper than
// one level are left untouched.
func (e Event) Sanitize() Event {
	out := make(Event, len(e))
	for k, v := range e {
		if m, ok := v.(map[string]any); ok {
			clean := make(map[string]any, len(m))
			for mk, mv := range m {
				if !isEmpty(mv) {
					clean[mk] = mv
				}
			}
			v = clean
		}
		if isEmpty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case map[string][]string:
		return len(t) == 0
	case map[string]string:
		return len(t) == 0
	}
	return false
}
