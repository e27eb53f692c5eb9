package post

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// dateLayouts are tried in order for dates given as strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
}

// frontMatterFromData picks the well-known fields out of the front matter map.
func frontMatterFromData(data map[string]any) (FrontMatter, error) {
	var (
		fm  FrontMatter
		err error
	)
	fm.Slug = stringValue(data, "slug")
	fm.Title = stringValue(data, "title")
	fm.Summary = stringValue(data, "summary", "description")
	fm.Template = stringValue(data, "template")
	fm.Tags = stringsValue(data, "tags")
	fm.PublishedOn, err = timeValue(data, "publishedOn", "date")
	if err != nil {
		return fm, err
	}
	if fm.Title == "" && fm.Slug != "" {
		fm.Title = TitleFromSlug(fm.Slug)
	}
	return fm, nil
}

func stringValue(data map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := data[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return fmt.Sprint(v)
	}
	return ""
}

func stringsValue(data map[string]any, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		r := make([]string, 0, len(v))
		for _, x := range v {
			r = append(r, fmt.Sprint(x))
		}
		return r
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

func timeValue(data map[string]any, keys ...string) (time.Time, error) {
	for _, k := range keys {
		v, ok := data[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case toml.LocalDate:
			return t.AsTime(time.UTC), nil
		case toml.LocalDateTime:
			return t.AsTime(time.UTC), nil
		case string:
			if strings.TrimSpace(t) == "" {
				return time.Time{}, nil
			}
			for _, layout := range dateLayouts {
				d, err := time.Parse(layout, strings.TrimSpace(t))
				if err == nil {
					return d, nil
				}
			}
			return time.Time{}, fmt.Errorf("front matter %q: cannot parse date %q", k, t)
		default:
			return time.Time{}, fmt.Errorf("front matter %q: unexpected type %T", k, v)
		}
	}
	return time.Time{}, nil
}
