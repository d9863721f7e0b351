package extract

import "time"

// Default scan limits.
const (
	DefaultPrimaryHeaderRows   = 80
	DefaultSeriesRows          = 40
	DefaultAnchorCols          = 250
	DefaultSubHeaderProbeCols  = 20
	DefaultSubHeaderWindowCols = 30
	DefaultBlockRows           = 60
)

// Bounds caps how far each scanner looks.
type Bounds struct {
	PrimaryHeaderRows   int // rows searched for the primary header
	SeriesRows          int // data rows read below a mini-table title
	AnchorCols          int // columns searched for block anchors
	SubHeaderProbeCols  int // columns below an anchor that must hold both labels
	SubHeaderWindowCols int // columns searched for label offsets
	BlockRows           int // data rows read below a block sub-header
}

// DefaultBounds returns the limits the production sheet is known to fit in.
func DefaultBounds() Bounds {
	return Bounds{
		PrimaryHeaderRows:   DefaultPrimaryHeaderRows,
		SeriesRows:          DefaultSeriesRows,
		AnchorCols:          DefaultAnchorCols,
		SubHeaderProbeCols:  DefaultSubHeaderProbeCols,
		SubHeaderWindowCols: DefaultSubHeaderWindowCols,
		BlockRows:           DefaultBlockRows,
	}
}

// Labels are the header texts, matched case-insensitively.
type Labels struct {
	Inflow  string
	Outflow string
	Net     string
}

// DefaultLabels returns the Portuguese header labels.
func DefaultLabels() Labels {
	return Labels{
		Inflow:  "entrada",
		Outflow: "saída",
		Net:     "líquido",
	}
}

// Default mini-table titles.
const (
	DefaultSeriesATitle = "Gastos Fixos"
	DefaultSeriesBTitle = "Gastos Variáveis"
)

// Options configures an extraction run.
type Options struct {
	Year         int
	SeriesATitle string
	SeriesBTitle string
	Labels       Labels
	Bounds       Bounds
	Now          func() time.Time
}

// DefaultOptions returns options for the given reporting year.
func DefaultOptions(year int) Options {
	return Options{
		Year:         year,
		SeriesATitle: DefaultSeriesATitle,
		SeriesBTitle: DefaultSeriesBTitle,
		Labels:       DefaultLabels(),
		Bounds:       DefaultBounds(),
		Now:          time.Now,
	}
}

// withDefaults fills zero-valued fields so a partially built Options works.
// A zero Year falls back to the year of Now.
func (o Options) withDefaults() Options {
	def := DefaultOptions(o.Year)
	if o.SeriesATitle == "" {
		o.SeriesATitle = def.SeriesATitle
	}
	if o.SeriesBTitle == "" {
		o.SeriesBTitle = def.SeriesBTitle
	}
	if o.Labels == (Labels{}) {
		o.Labels = def.Labels
	}
	o.Bounds = o.Bounds.withDefaults()
	if o.Now == nil {
		o.Now = def.Now
	}
	if o.Year <= 0 {
		o.Year = o.Now().Year()
	}
	return o
}

// withDefaults replaces each non-positive limit with its default.
func (b Bounds) withDefaults() Bounds {
	def := DefaultBounds()
	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&b.PrimaryHeaderRows, def.PrimaryHeaderRows)
	fill(&b.SeriesRows, def.SeriesRows)
	fill(&b.AnchorCols, def.AnchorCols)
	fill(&b.SubHeaderProbeCols, def.SubHeaderProbeCols)
	fill(&b.SubHeaderWindowCols, def.SubHeaderWindowCols)
	fill(&b.BlockRows, def.BlockRows)
	return b
}
