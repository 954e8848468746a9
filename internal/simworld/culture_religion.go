package simworld

// Value is a closed enumeration of the cultural/religious values a Culture
// or Religion may hold.
type Value uint8

const (
	ValueTradition Value = iota
	ValueOpenness
	ValueMilitarism
	ValuePiety
	ValueMercantilism
	ValueEgalitarianism
)

// Culture is a shared identity with a value set, carried by persons and
// settlements via mixture maps: a named Value set plus
// fervor/orthodoxy/resistance gauges.
type Culture struct {
	Base

	Values     map[Value]float64 `json:"values"` // -1.0 to 1.0 per value
	Tenets     []string          `json:"tenets,omitempty"`
	Fervor     float64           `json:"fervor"`     // 0.0-1.0, intensity of adherence
	Orthodoxy  float64           `json:"orthodoxy"`  // 0.0-1.0, resistance to internal variation
	Resistance float64           `json:"resistance"` // 0.0-1.0, resistance to external blending
}

// NewCulture constructs a Culture with empty values.
func NewCulture(simID uint64, name string, origin uint64) *Culture {
	return &Culture{
		Base:   Base{SimID: simID, Name: name, Origin: origin},
		Values: make(map[Value]float64),
	}
}

// Religion is a belief system, structurally identical in shape to Culture
// but semantically distinct (tracked in a separate entity table/kind).
type Religion struct {
	Base

	Values     map[Value]float64 `json:"values"`
	Tenets     []string          `json:"tenets,omitempty"`
	Fervor     float64           `json:"fervor"`
	Orthodoxy  float64           `json:"orthodoxy"`
	Resistance float64           `json:"resistance"`
}

// NewReligion constructs a Religion with empty values.
func NewReligion(simID uint64, name string, origin uint64) *Religion {
	return &Religion{
		Base:   Base{SimID: simID, Name: name, Origin: origin},
		Values: make(map[Value]float64),
	}
}

// Blend merges another culture's values into this one weighted by
// strength in [0,1], used by the applicator's BlendCultures handler.
func (c *Culture) Blend(other *Culture, strength float64) {
	for v, ov := range other.Values {
		cv := c.Values[v]
		c.Values[v] = cv + (ov-cv)*strength*(1-c.Resistance)
	}
}
