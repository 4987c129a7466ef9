package settings

import (
	"bytes"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tornado/pkg/errors"
)

// File is the TOML representation of [Settings]. Every field is optional;
// missing fields keep the value of the settings the file is applied to.
//
//	[general]
//	precision = 2
//	format = "#,0.00"
//
//	[sections]
//	left = 20
//	right = 80
//	is_percent = true
//
//	[labels]
//	show = true
//	inside_fill = "#ffffff"
//
//	[data_point]
//	"Sales 2023" = "#01b8aa"
type File struct {
	General    GeneralSection    `toml:"general"`
	Sections   *Sections         `toml:"sections"`
	Labels     LabelsSection     `toml:"labels"`
	Categories CategoriesSection `toml:"categories"`
	Legend     LegendSection     `toml:"legend"`
	DataPoint  map[string]string `toml:"data_point"`
	Palette    []string          `toml:"palette"`
}

// GeneralSection holds number formatting properties.
type GeneralSection struct {
	Precision *int    `toml:"precision"`
	Format    *string `toml:"format"`
}

// LabelsSection holds value label properties.
type LabelsSection struct {
	Show        *bool    `toml:"show"`
	InsideFill  *string  `toml:"inside_fill"`
	OutsideFill *string  `toml:"outside_fill"`
	FontSize    *float64 `toml:"font_size"`
	MaxWidth    *float64 `toml:"max_width"`
}

// CategoriesSection holds category text properties.
type CategoriesSection struct {
	Show     *bool    `toml:"show"`
	Fill     *string  `toml:"fill"`
	FontSize *float64 `toml:"font_size"`
}

// LegendSection holds legend properties.
type LegendSection struct {
	Show     *bool    `toml:"show"`
	Fill     *string  `toml:"fill"`
	FontSize *float64 `toml:"font_size"`
}

// Apply overlays the fields set in f onto s and returns the result.
func (f File) Apply(s Settings) Settings {
	set(&s.Precision, f.General.Precision)
	set(&s.Format, f.General.Format)
	if f.Sections != nil {
		s.Sections = *f.Sections
	}

	set(&s.ShowLabels, f.Labels.Show)
	set(&s.LabelInsideFill, f.Labels.InsideFill)
	set(&s.LabelOutsideFill, f.Labels.OutsideFill)
	set(&s.LabelFontSize, f.Labels.FontSize)
	set(&s.LabelMaxWidth, f.Labels.MaxWidth)

	set(&s.ShowCategories, f.Categories.Show)
	set(&s.CategoriesFill, f.Categories.Fill)
	set(&s.CategoryFontSize, f.Categories.FontSize)

	set(&s.ShowLegend, f.Legend.Show)
	set(&s.LegendFill, f.Legend.Fill)
	set(&s.LegendFontSize, f.Legend.FontSize)

	if len(f.DataPoint) > 0 {
		fills := make(map[string]string, len(s.SeriesFills)+len(f.DataPoint))
		for k, v := range s.SeriesFills {
			fills[k] = v
		}
		for k, v := range f.DataPoint {
			fills[k] = v
		}
		s.SeriesFills = fills
	}
	if len(f.Palette) > 0 {
		s.Palette = append([]string(nil), f.Palette...)
	}
	return s
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Decode reads a TOML settings file from r, applies it over [Default] and
// validates the result. Unknown keys are rejected so that typos surface.
func Decode(r io.Reader) (Settings, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidSettings, err, "parse settings")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Settings{}, errors.New(errors.ErrCodeInvalidSettings, "unknown setting %q", undec[0].String())
	}
	s := f.Apply(Default())
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads and decodes the settings file at path.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "settings file %s", path)
		}
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read settings file %s", path)
	}
	return Decode(bytes.NewReader(data))
}

// Encode writes s as a TOML settings file.
func Encode(w io.Writer, s Settings) error {
	f := File{
		General:  GeneralSection{Precision: &s.Precision},
		Sections: &s.Sections,
		Labels: LabelsSection{
			Show:        &s.ShowLabels,
			InsideFill:  &s.LabelInsideFill,
			OutsideFill: &s.LabelOutsideFill,
			FontSize:    &s.LabelFontSize,
			MaxWidth:    &s.LabelMaxWidth,
		},
		Categories: CategoriesSection{
			Show:     &s.ShowCategories,
			Fill:     &s.CategoriesFill,
			FontSize: &s.CategoryFontSize,
		},
		Legend: LegendSection{
			Show:     &s.ShowLegend,
			Fill:     &s.LegendFill,
			FontSize: &s.LegendFontSize,
		},
		DataPoint: s.SeriesFills,
		Palette:   s.Palette,
	}
	if s.Format != "" {
		f.General.Format = &s.Format
	}
	return toml.NewEncoder(w).Encode(f)
}
