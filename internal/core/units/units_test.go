package units

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Code
		ok   bool
	}{
		{"Tablespoons", "tbsp", true},
		{"κ.σ.", "tbsp", true},
		{"Κ.Σ.", "tbsp", true},
		{"lbs", "lb", true},
		{"cups", "cup", true},
		{"C", "°C", true},
		{"°F", "°F", true},
		{"L", "l", true},
		{"FL OZ", "fl oz", true},
		{"κουταλάκια", "tsp", true},
		{"γραμμάρια", "g", true},
		{"bogus", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"g", "kg"}, {"g", "oz"}, {"lb", "kg"}, {"oz", "lb"},
		{"ml", "cup"}, {"l", "fl oz"}, {"tbsp", "tsp"}, {"cup", "tbsp"},
		{"C", "F"},
	}
	for _, p := range pairs {
		for _, v := range []float64{0.5, 1, 3.75, 250, 1234.5} {
			there, ok := Convert(v, p[0], p[1])
			require.True(t, ok, "%s -> %s", p[0], p[1])
			back, ok := Convert(there, p[1], p[0])
			require.True(t, ok)
			assert.InDelta(t, v, back, 1e-6, "%v %s -> %s", v, p[0], p[1])
		}
	}
}

func TestConvert_Temperature(t *testing.T) {
	got, ok := Convert(0, "C", "F")
	require.True(t, ok)
	assert.InDelta(t, 32, got, 1e-9)

	got, ok = Convert(100, "C", "F")
	require.True(t, ok)
	assert.InDelta(t, 212, got, 1e-9)

	got, ok = Convert(32, "F", "C")
	require.True(t, ok)
	assert.InDelta(t, 0, got, 1e-9)

	got, ok = Convert(180, "celsius", "°C")
	require.True(t, ok)
	assert.Equal(t, 180.0, got)
}

func TestConvert_Rejects(t *testing.T) {
	_, ok := Convert(1, "g", "ml")
	assert.False(t, ok)
	_, ok = Convert(1, "bogus", "g")
	assert.False(t, ok)
	_, ok = Convert(1, "g", "bogus")
	assert.False(t, ok)
	_, ok = Convert(1, "C", "g")
	assert.False(t, ok)
}

func TestConvert_Linear(t *testing.T) {
	got, ok := Convert(1, "kg", "g")
	require.True(t, ok)
	assert.Equal(t, 1000.0, got)

	got, ok = Convert(1, "cup", "ml")
	require.True(t, ok)
	assert.InDelta(t, 236.588, got, 1e-9)
}

func TestSmartRound(t *testing.T) {
	tests := []struct {
		in   float64
		want string
		frac bool
	}{
		{2.48, "2 ½", true},
		{0.05, "0.05", false},
		{3.0, "3", false},
		{0, "0", false},
		{0.5, "½", true},
		{0.33, "⅓", true},
		{1.7, "1 ⅔", true},
		{1.76, "1 ¾", true},
		{2.125, "2 ⅛", true},
		{2.9, "2.9", false},
		{8.5812, "8.58", false},
		{0.3, "⅓", true},
		{-1.5, "-1 ½", true},
	}
	for _, tt := range tests {
		a := SmartRound(tt.in)
		assert.Equal(t, tt.want, a.String(), "SmartRound(%v)", tt.in)
		assert.Equal(t, tt.frac, a.IsFraction(), "SmartRound(%v)", tt.in)
	}
}

func TestAmount_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(SmartRound(2.48))
	require.NoError(t, err)
	assert.JSONEq(t, `"2 ½"`, string(b))

	b, err = json.Marshal(SmartRound(3))
	require.NoError(t, err)
	assert.JSONEq(t, `3`, string(b))
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := map[string]Amount{
		`3`:      Number(3),
		`0.06`:   Number(0.06),
		`"½"`:    SmartRound(0.5),
		`"2 ½"`:  SmartRound(2.5),
		`"-1 ¼"`: SmartRound(-1.25),
	}
	for in, want := range tests {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(in), &a), in)
		assert.Equal(t, want, a, in)
	}

	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`"two"`), &a))
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}

func TestScaleQuantity(t *testing.T) {
	for _, q := range []float64{0.3, 1, 2.48, 7.1} {
		for _, n := range []int{1, 4, 12} {
			assert.Equal(t, SmartRound(q), ScaleQuantity(q, n, n))
		}
	}

	assert.Equal(t, "4", ScaleQuantity(2, 2, 4).String())
	assert.Equal(t, "1 ½", ScaleQuantity(3, 4, 2).String())

	// zero inputs leave the quantity untouched
	assert.Equal(t, Number(2.48), ScaleQuantity(2.48, 0, 4))
	assert.Equal(t, Number(2.48), ScaleQuantity(2.48, 4, 0))
	assert.Equal(t, Number(0), ScaleQuantity(0, 4, 8))
	assert.Equal(t, 5.0, ScaleValue(5, 0, 3))
}

func TestConvertIngredient(t *testing.T) {
	t.Run("converts to preferred unit", func(t *testing.T) {
		c := ConvertIngredient(ptr(2), "cups", Metric)
		require.True(t, c.Converted)
		assert.Equal(t, Code("ml"), *c.Unit)
		assert.InDelta(t, 473.176, *c.Value, 1e-9)
		assert.Equal(t, "473.18", c.Quantity.String())
		assert.Equal(t, 2.0, *c.OriginalQuantity)
		assert.Equal(t, Code("cup"), *c.OriginalUnit)
	})

	t.Run("already preferred normalizes unit", func(t *testing.T) {
		c := ConvertIngredient(ptr(100), "grams", Metric)
		assert.False(t, c.Converted)
		assert.Equal(t, Code("g"), *c.Unit)
		assert.Equal(t, 100.0, *c.Value)
		assert.Nil(t, c.OriginalQuantity)
	})

	t.Run("missing quantity passes through", func(t *testing.T) {
		c := ConvertIngredient(nil, "g", US)
		assert.False(t, c.Converted)
		assert.Nil(t, c.Quantity)
		assert.Equal(t, Code("g"), *c.Unit)
	})

	t.Run("missing unit passes through", func(t *testing.T) {
		c := ConvertIngredient(ptr(1), "", Cooking)
		assert.False(t, c.Converted)
		assert.Nil(t, c.Unit)
		assert.Equal(t, 1.0, *c.Value)
	})

	t.Run("unknown unit passes through", func(t *testing.T) {
		c := ConvertIngredient(ptr(3), "cloves", Metric)
		assert.False(t, c.Converted)
		assert.Equal(t, Code("cloves"), *c.Unit)
	})

	t.Run("temperature", func(t *testing.T) {
		c := ConvertIngredient(ptr(180), "C", US)
		require.True(t, c.Converted)
		assert.Equal(t, Code("°F"), *c.Unit)
		assert.InDelta(t, 356, *c.Value, 1e-9)
	})
}

func TestAllConversions(t *testing.T) {
	all := AllConversions(ptr(1), "lb")
	assert.Equal(t, Code("lb"), *all.Original.Unit)
	assert.Equal(t, Code("g"), *all.Metric.Unit)
	assert.Equal(t, Code("oz"), *all.US.Unit)
	assert.Equal(t, Code("oz"), *all.Cooking.Unit)
	assert.InDelta(t, 16, *all.US.Value, 1e-3)
}

func TestPreferredMatrix(t *testing.T) {
	want := map[System][3]Code{
		Metric:  {"g", "ml", "°C"},
		US:      {"oz", "fl oz", "°F"},
		Cooking: {"oz", "cup", "°F"},
	}
	for system, codes := range want {
		for i, typ := range []Type{Weight, Volume, Temperature} {
			got, ok := Preferred(system, typ)
			require.True(t, ok)
			assert.Equal(t, codes[i], got, "%s/%s", system, typ)
		}
	}
}

func TestLoad_Rejects(t *testing.T) {
	_, err := Load([]byte("units:\n  - code: g\n    type: weight\n    base: 0\n    system: metric\n"))
	assert.Error(t, err)

	_, err = Load([]byte("units:\n  - code: g\n    type: mass\n    base: 1\n    system: metric\n"))
	assert.Error(t, err)

	_, err = Load([]byte("units: ["))
	assert.Error(t, err)
}

func TestIngredientTokens(t *testing.T) {
	tokens := Default().IngredientTokens()
	require.NotEmpty(t, tokens)
	for i := 1; i < len(tokens); i++ {
		assert.GreaterOrEqual(t, len([]rune(tokens[i-1])), len([]rune(tokens[i])))
	}
	assert.NotContains(t, tokens, "f")
	assert.NotContains(t, tokens, "c")
	assert.Contains(t, tokens, "κ.σ.")
}

func TestParseSystem(t *testing.T) {
	s, ok := ParseSystem("Metric")
	assert.True(t, ok)
	assert.Equal(t, Metric, s)
	_, ok = ParseSystem("imperial")
	assert.False(t, ok)
}
