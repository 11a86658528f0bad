package units

// Convert converts value between two raw unit strings. ok is false when
// either unit is unknown or the units measure different things. The result
// is never rounded.
func (r *Registry) Convert(value float64, from, to string) (float64, bool) {
	fromCode, ok := r.Normalize(from)
	if !ok {
		return 0, false
	}
	toCode, ok := r.Normalize(to)
	if !ok {
		return 0, false
	}
	return r.convertCodes(value, fromCode, toCode)
}

func (r *Registry) convertCodes(value float64, from, to Code) (float64, bool) {
	fromDef, ok := r.defs[from]
	if !ok {
		return 0, false
	}
	toDef, ok := r.defs[to]
	if !ok || fromDef.Type != toDef.Type {
		return 0, false
	}
	if fromDef.Type == Temperature {
		return convertTemperature(value, from, to)
	}
	return value * fromDef.Base / toDef.Base, true
}

func convertTemperature(value float64, from, to Code) (float64, bool) {
	switch {
	case from == to:
		return value, true
	case from == "°C" && to == "°F":
		return value*9/5 + 32, true
	case from == "°F" && to == "°C":
		return (value - 32) * 5 / 9, true
	}
	return 0, false
}

// Conversion is the result of rendering one quantity in a target system.
// Value carries the unrounded number for further arithmetic; Quantity is
// for display only.
type Conversion struct {
	Quantity         *Amount  `json:"quantity"`
	Value            *float64 `json:"value"`
	Unit             *Code    `json:"unit"`
	Converted        bool     `json:"converted"`
	OriginalQuantity *float64 `json:"originalQuantity,omitempty"`
	OriginalUnit     *Code    `json:"originalUnit,omitempty"`
}

// ConvertIngredient converts a quantity and raw unit to the preferred unit
// of system. Missing quantity or unit, an unknown unit, or a unit that is
// already preferred all pass through with Converted false.
func (r *Registry) ConvertIngredient(quantity *float64, unit string, system System) Conversion {
	if quantity == nil || unit == "" {
		return passthrough(quantity, unit)
	}
	code, ok := r.Normalize(unit)
	if !ok {
		return passthrough(quantity, unit)
	}
	def := r.defs[code]
	target, ok := r.Preferred(system, def.Type)
	if !ok || target == code {
		return passthrough(quantity, string(code))
	}
	value, ok := r.convertCodes(*quantity, code, target)
	if !ok {
		return passthrough(quantity, string(code))
	}

	amount := SmartRound(value)
	original := *quantity
	return Conversion{
		Quantity:         &amount,
		Value:            &value,
		Unit:             &target,
		Converted:        true,
		OriginalQuantity: &original,
		OriginalUnit:     &code,
	}
}

func passthrough(quantity *float64, unit string) Conversion {
	var c Conversion
	if quantity != nil {
		v := *quantity
		amount := Number(v)
		c.Value = &v
		c.Quantity = &amount
	}
	if unit != "" {
		code := Code(unit)
		c.Unit = &code
	}
	return c
}

// SystemConversions holds one quantity rendered in every system.
type SystemConversions struct {
	Original Conversion `json:"original"`
	Metric   Conversion `json:"metric"`
	US       Conversion `json:"us"`
	Cooking  Conversion `json:"cooking"`
}

// AllConversions renders a quantity in its original form and in each system.
func (r *Registry) AllConversions(quantity *float64, unit string) SystemConversions {
	original := unit
	if code, ok := r.Normalize(unit); ok {
		original = string(code)
	}
	return SystemConversions{
		Original: passthrough(quantity, original),
		Metric:   r.ConvertIngredient(quantity, unit, Metric),
		US:       r.ConvertIngredient(quantity, unit, US),
		Cooking:  r.ConvertIngredient(quantity, unit, Cooking),
	}
}

// Convert converts with the default registry.
func Convert(value float64, from, to string) (float64, bool) {
	return defaultRegistry.Convert(value, from, to)
}

// ConvertIngredient converts with the default registry.
func ConvertIngredient(quantity *float64, unit string, system System) Conversion {
	return defaultRegistry.ConvertIngredient(quantity, unit, system)
}

// AllConversions renders with the default registry.
func AllConversions(quantity *float64, unit string) SystemConversions {
	return defaultRegistry.AllConversions(quantity, unit)
}
