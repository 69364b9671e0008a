// Package normalize maps messy, LLM-emitted field values onto the fixed
// campaign vocabularies. Except for Objective and ContentType, every
// normalizer is total: it always returns a member of the target set.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campaign-os/planner-api/internal/models"
	"github.com/google/uuid"
)

// objectiveKeywords maps substring cues to canonical objectives. Checked in
// order before falling back to an exact enum match.
var objectiveKeywords = []struct {
	cues  []string
	value string
}{
	{[]string{"engagement", "mutual", "community"}, models.ObjectiveEngagement},
	{[]string{"reach", "awareness"}, models.ObjectiveReach},
	{[]string{"traffic", "click"}, models.ObjectiveTraffic},
	{[]string{"lead", "capture"}, models.ObjectiveLead},
	{[]string{"conversion", "purchase"}, models.ObjectiveConversion},
	{[]string{"mobilization", "action"}, models.ObjectiveMobilization},
}

// fold lowercases, trims, and treats '-' and '_' as interchangeable
func fold(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(s, "-", "_")
}

// Objective maps a raw objective onto the fixed set via keyword groups, then
// an exact match. ok is false when nothing matches; the caller rejects the
// slot in that case.
func Objective(raw string) (string, bool) {
	s := fold(raw)
	if s == "" {
		return "", false
	}
	for _, group := range objectiveKeywords {
		for _, cue := range group.cues {
			if strings.Contains(s, cue) {
				return group.value, true
			}
		}
	}
	if models.ValidObjectives[s] {
		return s, true
	}
	return "", false
}

// ContentType maps a raw content type onto the fixed set by exact,
// case-insensitive match. ok is false when nothing matches; the caller
// rejects the slot.
func ContentType(raw string) (string, bool) {
	s := fold(raw)
	if models.ValidContentTypes[s] {
		return s, true
	}
	return "", false
}

// AngleType maps a raw angle type onto the fixed set, defaulting to "other"
func AngleType(raw string) string {
	s := fold(raw)
	if models.ValidAngleTypes[s] {
		return s
	}
	return "other"
}

// CTAType maps a raw CTA type onto the fixed set, defaulting to "learn_more"
func CTAType(raw string) string {
	s := fold(raw)
	if models.ValidCTATypes[s] {
		return s
	}
	return "learn_more"
}

// FunnelStage maps a raw funnel stage onto the fixed set. Unrecognized input
// falls back to the caller-supplied stage (the owning sprint's focus stage),
// and to "awareness" when the fallback itself is not a valid stage.
func FunnelStage(raw, fallback string) string {
	s := fold(raw)
	if models.ValidFunnelStages[s] {
		return s
	}
	f := fold(fallback)
	if models.ValidFunnelStages[f] {
		return f
	}
	return "awareness"
}

// TimeOfDay maps a raw time-of-day hint onto the fixed set. Unrecognized
// input returns "" and the field is omitted.
func TimeOfDay(raw string) string {
	s := fold(raw)
	if models.ValidTimesOfDay[s] {
		return s
	}
	return ""
}

// SlotStatus maps a raw status onto the slot lifecycle, defaulting to
// "planned"
func SlotStatus(raw string) string {
	s := fold(raw)
	if models.ValidSlotStatuses[s] {
		return s
	}
	return models.SlotStatusPlanned
}

// Text trims an optional free-text field. nil, empty and whitespace-only
// input all collapse to "", which callers treat as omitted.
func Text(raw *string) string {
	if raw == nil {
		return ""
	}
	return strings.TrimSpace(*raw)
}

// IsUUID reports whether s parses as a UUID. uuid.Parse accepts any version
// (1-8) plus the all-zero and all-F sentinel values, which is exactly the
// shape check wanted here.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// UUIDOr returns raw when it is UUID-shaped, else the fallback
func UUIDOr(raw, fallback string) string {
	if IsUUID(strings.TrimSpace(raw)) {
		return strings.TrimSpace(raw)
	}
	return fallback
}

// UUIDOrNew returns raw when it is UUID-shaped, else a fresh random UUID
func UUIDOrNew(raw string) string {
	if IsUUID(strings.TrimSpace(raw)) {
		return strings.TrimSpace(raw)
	}
	return uuid.New().String()
}

// UUIDRef returns raw when it is UUID-shaped, else "" so the reference is
// omitted rather than the slot rejected
func UUIDRef(raw string) string {
	return UUIDOr(raw, "")
}

// UUIDList keeps the UUID-shaped entries of raw, deduplicated, capped at max
// (0 means no cap). Invalid entries are dropped, never fatal.
func UUIDList(raw []string, max int) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if !IsUUID(r) || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// StringList coerces a JSON-typed column value of unknown shape into a list
// of strings:
//   - nil → nil
//   - []interface{} → each element stringified (objects re-marshalled)
//   - map → wrapped as a single JSON string
//   - string that itself parses as a JSON array → its elements
//   - any other scalar → one-element list
func StringList(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	case map[string]interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		return []string{string(b)}
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		if strings.HasPrefix(trimmed, "[") {
			var arr []interface{}
			if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
				return StringList(arr)
			}
		}
		return []string{trimmed}
	default:
		return []string{stringify(val)}
	}
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case map[string]interface{}:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
