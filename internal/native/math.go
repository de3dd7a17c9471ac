package native

import (
	"math"

	"github.com/funvibe/pgraph/internal/config"
	"github.com/funvibe/pgraph/internal/evaluator"
)

// MathModule returns the math provider. Float functions accept Int
// arguments and widen them.
func MathModule() *Module {
	return &Module{
		Name: config.MathModule,
		Builtins: map[string]*Builtin{
			"sqrt":   {Name: "sqrt", Arity: 1, Fn: unaryFloat("sqrt", math.Sqrt)},
			"sin":    {Name: "sin", Arity: 1, Fn: unaryFloat("sin", math.Sin)},
			"cos":    {Name: "cos", Arity: 1, Fn: unaryFloat("cos", math.Cos)},
			"floor":  {Name: "floor", Arity: 1, Fn: unaryFloat("floor", math.Floor)},
			"abs":    {Name: "abs", Arity: 1, Fn: mathAbs},
			"pow":    {Name: "pow", Arity: 2, Fn: mathPow},
			"noise2": {Name: "noise2", Arity: 2, Fn: mathNoise2},
		},
	}
}

func unaryFloat(name string, f func(float64) float64) BuiltinFunction {
	return func(args ...evaluator.Object) evaluator.Object {
		x, err := argNumber(name, args, 0)
		if err != nil {
			return err
		}
		return &evaluator.Float{Value: f(x)}
	}
}

// mathAbs keeps the argument's kind; abs of MinInt64 wraps like negation.
func mathAbs(args ...evaluator.Object) evaluator.Object {
	if n, ok := args[0].(*evaluator.Integer); ok {
		if n.Value < 0 {
			return &evaluator.Integer{Value: -n.Value}
		}
		return n
	}
	x, err := argNumber("abs", args, 0)
	if err != nil {
		return err
	}
	return &evaluator.Float{Value: math.Abs(x)}
}

func mathPow(args ...evaluator.Object) evaluator.Object {
	x, err := argNumber("pow", args, 0)
	if err != nil {
		return err
	}
	y, err := argNumber("pow", args, 1)
	if err != nil {
		return err
	}
	return &evaluator.Float{Value: math.Pow(x, y)}
}

func mathNoise2(args ...evaluator.Object) evaluator.Object {
	x, err := argNumber("noise2", args, 0)
	if err != nil {
		return err
	}
	y, err := argNumber("noise2", args, 1)
	if err != nil {
		return err
	}
	return &evaluator.Float{Value: Noise2(x, y)}
}

// Noise2 is deterministic 2D gradient noise in [-1, 1]. It is zero on
// every integer lattice point.
func Noise2(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int64(x0), int64(y0)

	n00 := gradDot(ix, iy, fx, fy)
	n10 := gradDot(ix+1, iy, fx-1, fy)
	n01 := gradDot(ix, iy+1, fx, fy-1)
	n11 := gradDot(ix+1, iy+1, fx-1, fy-1)

	u, v := fade(fx), fade(fy)
	nx0 := lerp(n00, n10, u)
	nx1 := lerp(n01, n11, u)
	// Corner gradients are unit length, so the raw value stays within ±√2/2.
	return clamp(lerp(nx0, nx1, v)*math.Sqrt2, -1, 1)
}

var gradients = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{math.Sqrt2 / 2, math.Sqrt2 / 2}, {-math.Sqrt2 / 2, math.Sqrt2 / 2},
	{math.Sqrt2 / 2, -math.Sqrt2 / 2}, {-math.Sqrt2 / 2, -math.Sqrt2 / 2},
}

func gradDot(ix, iy int64, dx, dy float64) float64 {
	h := uint64(ix)*0x9E3779B97F4A7C15 ^ uint64(iy)*0xC2B2AE3D27D4EB4F
	h ^= h >> 29
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 32
	g := gradients[h&7]
	return g[0]*dx + g[1]*dy
}

func fade(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
