package roadmap

import (
	"slices"
	"strings"

	"github.com/Abraxas-365/skillpath/pkg/errx"
)

const (
	DefaultWeeklyHours = 10
	MaxWeeklyHours     = 168
)

// DefaultPreferredResourceTypes is used when the caller states no preference
var DefaultPreferredResourceTypes = []ResourceType{ResourceCourse, ResourceTutorial, ResourceDocumentation}

// Customizations are the user's generation preferences stored on the roadmap.
// An empty PreferredResourceTypes disables type filtering. ExcludeProviders is
// stored but not applied during generation.
type Customizations struct {
	WeeklyHours            int            `json:"weekly_hours"`
	PreferredResourceTypes []ResourceType `json:"preferred_resource_types"`
	ExcludeProviders       []string       `json:"exclude_providers"`
}

// DefaultCustomizations returns the preferences applied when none are given
func DefaultCustomizations() Customizations {
	return Customizations{
		WeeklyHours:            DefaultWeeklyHours,
		PreferredResourceTypes: append([]ResourceType(nil), DefaultPreferredResourceTypes...),
		ExcludeProviders:       []string{},
	}
}

// CustomizationsInput is the raw request payload. Nil fields mean "not provided".
type CustomizationsInput struct {
	WeeklyHours            *int     `json:"weekly_hours,omitempty"`
	PreferredResourceTypes []string `json:"preferred_resource_types,omitempty"`
	ExcludeProviders       []string `json:"exclude_providers,omitempty"`
}

// Normalize turns the raw input into usable preferences. Malformed fields
// never fail the request: each falls back to its default and is reported
// as a validation warning.
func (in *CustomizationsInput) Normalize() (Customizations, []*errx.Error) {
	out := DefaultCustomizations()
	if in == nil {
		return out, nil
	}

	var warnings []*errx.Error

	if in.WeeklyHours != nil {
		if h := *in.WeeklyHours; h >= 1 && h <= MaxWeeklyHours {
			out.WeeklyHours = h
		} else {
			warnings = append(warnings, ErrInvalidCustomizations().
				WithDetail("field", "weekly_hours").
				WithDetail("value", h).
				WithDetail("fallback", DefaultWeeklyHours))
		}
	}

	if in.PreferredResourceTypes != nil {
		types := make([]ResourceType, 0, len(in.PreferredResourceTypes))
		var rejected []string
		for _, raw := range in.PreferredResourceTypes {
			t := ResourceType(strings.ToLower(strings.TrimSpace(raw)))
			if !t.IsValid() {
				rejected = append(rejected, raw)
				continue
			}
			if !slices.Contains(types, t) {
				types = append(types, t)
			}
		}

		switch {
		case len(rejected) > 0 && len(types) == 0:
			warnings = append(warnings, ErrInvalidCustomizations().
				WithDetail("field", "preferred_resource_types").
				WithDetail("rejected", rejected).
				WithDetail("fallback", DefaultPreferredResourceTypes))
		case len(rejected) > 0:
			out.PreferredResourceTypes = types
			warnings = append(warnings, ErrInvalidCustomizations().
				WithDetail("field", "preferred_resource_types").
				WithDetail("rejected", rejected))
		default:
			out.PreferredResourceTypes = types
		}
	}

	for _, p := range in.ExcludeProviders {
		if p = strings.TrimSpace(p); p != "" {
			out.ExcludeProviders = append(out.ExcludeProviders, p)
		}
	}

	return out, warnings
}
