package xkblayouts

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

const DefaultEvdevXMLPath = "/usr/share/X11/xkb/rules/evdev.xml"

func ParseLayouts(path string) (*XkbConfigRegistry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func Parse(r io.Reader) (*XkbConfigRegistry, error) {
	registry := &XkbConfigRegistry{}
	err := xml.NewDecoder(r).Decode(registry)
	if err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}

	return registry, nil
}

func (r *XkbConfigRegistry) GetLayoutPrettyName(layout, variant string) string {
	if r == nil {
		return ""
	}

	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Name == layout {
			if variant == "" {
				return l.ConfigItem.Description
			}

			for _, v := range l.Variants {
				if v.ConfigItem.Name == variant {
					return v.ConfigItem.Description
				}
			}
		}
	}

	return ""
}

// ShortName returns the short label (e.g. "en") for a layout code.
func (r *XkbConfigRegistry) ShortName(layout string) string {
	if r == nil {
		return layout
	}

	for _, l := range r.LayoutList.Layout {
		if l.ConfigItem.Name == layout && l.ConfigItem.ShortDescription != "" {
			return l.ConfigItem.ShortDescription
		}
	}

	return layout
}

// PrettyNames pairs each layout code with its variant (by position) and
// returns the registry description, or the raw code when it is unknown.
func (r *XkbConfigRegistry) PrettyNames(layouts, variants []string) []string {
	out := make([]string, len(layouts))
	for i, layout := range layouts {
		variant := ""
		if i < len(variants) {
			variant = variants[i]
		}

		name := r.GetLayoutPrettyName(layout, variant)
		switch {
		case name != "":
			out[i] = name
		case variant != "":
			out[i] = layout + "(" + variant + ")"
		default:
			out[i] = layout
		}
	}
	return out
}
