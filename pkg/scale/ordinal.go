package scale

// Category10 is the default qualitative palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Unknown is the color returned for values outside an ordinal domain.
const Unknown = "#000000"

// Ordinal assigns palette colors to categories in domain order.
// When there are more categories than colors, assignment wraps around.
type Ordinal struct {
	domain  []string
	index   map[string]int
	palette []string
}

// NewOrdinal builds a color scale. An empty palette falls back to [Category10].
func NewOrdinal(domain []string, palette []string) *Ordinal {
	if len(palette) == 0 {
		palette = Category10
	}
	o := &Ordinal{
		index:   make(map[string]int, len(domain)),
		palette: append([]string(nil), palette...),
	}
	for _, v := range domain {
		if _, ok := o.index[v]; ok {
			continue
		}
		o.index[v] = len(o.domain)
		o.domain = append(o.domain, v)
	}
	return o
}

// Color returns the color for v, or [Unknown] if v is not in the domain.
func (o *Ordinal) Color(v string) string {
	i, ok := o.index[v]
	if !ok {
		return Unknown
	}
	return o.palette[i%len(o.palette)]
}

// Domain returns the categories in assignment order.
func (o *Ordinal) Domain() []string {
	return append([]string(nil), o.domain...)
}
