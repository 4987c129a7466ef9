package settings

import "sort"

// Property object names understood by [Settings.Enumerate].
const (
	ObjectGeneral    = "general"
	ObjectDataPoint  = "dataPoint"
	ObjectCategories = "categories"
	ObjectLabels     = "labels"
	ObjectLegend     = "legend"
)

// Objects lists every enumerable property object in display order.
var Objects = []string{ObjectGeneral, ObjectDataPoint, ObjectCategories, ObjectLabels, ObjectLegend}

// Instance is a snapshot of the current values of one property object, in
// the shape a property-editing surface reads back.
type Instance struct {
	ObjectName  string         `json:"objectName"`
	DisplayName string         `json:"displayName"`
	Selector    string         `json:"selector,omitempty"`
	Properties  map[string]any `json:"properties"`
}

// SeriesRef identifies one series for the dataPoint object.
type SeriesRef struct {
	Name     string
	Selector string
	Fill     string
}

// Enumerate returns the snapshots for object. The dataPoint object yields one
// instance per series; unknown objects yield nil.
func (s Settings) Enumerate(object string, series []SeriesRef) []Instance {
	switch object {
	case ObjectGeneral:
		props := map[string]any{"precision": s.Precision}
		if s.Format != "" {
			props["format"] = s.Format
		}
		return []Instance{{ObjectName: object, DisplayName: "General", Properties: props}}
	case ObjectDataPoint:
		out := make([]Instance, 0, len(series))
		for _, ref := range series {
			out = append(out, Instance{
				ObjectName:  object,
				DisplayName: ref.Name,
				Selector:    ref.Selector,
				Properties:  map[string]any{"fill": ref.Fill},
			})
		}
		return out
	case ObjectCategories:
		return []Instance{{
			ObjectName:  object,
			DisplayName: "Categories",
			Properties: map[string]any{
				"show":     s.ShowCategories,
				"fill":     s.CategoriesFill,
				"fontSize": s.CategoryFontSize,
				"left":     s.Sections.Left,
				"right":    s.Sections.Right,
				"percent":  s.Sections.IsPercent,
			},
		}}
	case ObjectLabels:
		return []Instance{{
			ObjectName:  object,
			DisplayName: "Data labels",
			Properties: map[string]any{
				"show":        s.ShowLabels,
				"insideFill":  s.LabelInsideFill,
				"outsideFill": s.LabelOutsideFill,
				"fontSize":    s.LabelFontSize,
				"maxWidth":    s.LabelMaxWidth,
			},
		}}
	case ObjectLegend:
		return []Instance{{
			ObjectName:  object,
			DisplayName: "Legend",
			Properties: map[string]any{
				"show":     s.ShowLegend,
				"fill":     s.LegendFill,
				"fontSize": s.LegendFontSize,
			},
		}}
	}
	return nil
}

// PropertyNames returns the sorted property keys of an instance.
func (i Instance) PropertyNames() []string {
	names := make([]string, 0, len(i.Properties))
	for k := range i.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
