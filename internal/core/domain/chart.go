package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"

	"gopkg.in/yaml.v3"
)

const ChartBlockTag = "stacked-bar-chart"

var (
	ErrInvalidColor     = errors.New("invalid color format (must be #RRGGBB)")
	ErrChartBlockAbsent = errors.New("no stacked-bar-chart block found")
)

var colorRegex = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

// ChartConfig is the static data the renderer and discovery depend on.
type ChartConfig struct {
	Weekdays          [DaysPerWeek]string
	DefaultCategories []string
	Colors            map[string]string
}

func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Weekdays:          [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		DefaultCategories: append([]string(nil), DefaultCategories...),
		Colors: map[string]string{
			"Glutes":    "#FF69B4",
			"Legs":      "#4169E1",
			"Back":      "#FFD700",
			"Brists":    "#20B2AA",
			"Shoulders": "#9370DB",
			"Jogging":   "#FFA500",
			"Yoga":      "#808080",
		},
	}
}

// WithColors returns a copy with extra or replaced category colors.
func (c ChartConfig) WithColors(overrides map[string]string) (ChartConfig, error) {
	colors := make(map[string]string, len(c.Colors)+len(overrides))
	for k, v := range c.Colors {
		colors[k] = v
	}
	for k, v := range overrides {
		if !colorRegex.MatchString(v) {
			return c, fmt.Errorf("category %q: %w", k, ErrInvalidColor)
		}
		colors[k] = strings.ToUpper(v)
	}
	c.Colors = colors
	return c, nil
}

func (c ChartConfig) Defaults() *CategorySet {
	return CategorySetFrom(c.DefaultCategories)
}

func (c ChartConfig) ColorFor(category string) string {
	if color, ok := c.Colors[category]; ok {
		return color
	}
	return HashColor(category)
}

// HashColor derives a stable #RRGGBB from a name: hash = unit + (hash<<5 - hash)
// over the UTF-16 code units in 32-bit signed arithmetic, low 24 bits kept.
func HashColor(s string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = int32(unit) + ((hash << 5) - hash)
	}
	return fmt.Sprintf("#%06X", uint32(hash)&0x00FFFFFF)
}

type ChartDataset struct {
	Label           string `yaml:"label" json:"label"`
	Data            []int  `yaml:"data" json:"data"`
	BackgroundColor string `yaml:"backgroundColor" json:"background_color"`
}

// ChartSpec is the YAML payload of a stacked-bar-chart block.
type ChartSpec struct {
	Labels   []string       `yaml:"labels" json:"labels"`
	Datasets []ChartDataset `yaml:"datasets" json:"datasets"`
}

// ParseChartSpec finds the first stacked-bar-chart fence in a document and
// decodes its YAML body.
func ParseChartSpec(document string) (*ChartSpec, error) {
	open := "```" + ChartBlockTag
	start := strings.Index(document, open)
	if start == -1 {
		return nil, ErrChartBlockAbsent
	}
	body := document[start+len(open):]
	end := strings.Index(body, "```")
	if end == -1 {
		return nil, ErrChartBlockAbsent
	}

	var spec ChartSpec
	if err := yaml.Unmarshal([]byte(body[:end]), &spec); err != nil {
		return nil, fmt.Errorf("decode chart yaml: %w", err)
	}
	return &spec, nil
}
