// Package strategy implements the strategy surface: a per-account
// function reading packed market fields, indicator values,
// hyperparameters, and metric scalars, and writing only through an
// Orders handle.
package strategy

// Range is a hyperparameter's declared sweep range: [Min..Max], stepped
// by Step. A strategy reads the hyperparameter's resolved value for this
// account, not the range itself — Range only matters to whatever
// build-time sweep driver picks a value per account (that driver is
// out of scope here; this type exists so it has something typed to
// target).
type Range struct {
	Min, Max, Step float32
}

// Values enumerates every value Range produces, inclusive of Max when it
// lands exactly on a step.
func (r Range) Values() []float32 {
	if r.Step <= 0 {
		return []float32{r.Min}
	}
	var out []float32
	for v := r.Min; v <= r.Max+r.Step/2; v += r.Step {
		out = append(out, v)
	}
	return out
}

// Hyperparameter is one named, per-account resolved value alongside the
// Range it was swept from.
type Hyperparameter struct {
	Name  string
	Range Range
	Value float32
}
