package optim_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/internal/optim"
	"github.com/born-ml/descent/internal/tensor"
)

// factories builds every optimizer variant with a fresh learning-rate cell,
// so the contract tests below run across the whole family.
func factories() []struct {
	name  string
	build func(params []*optim.Parameter) (optim.Optimizer, error)
} {
	return []struct {
		name  string
		build func(params []*optim.Parameter) (optim.Optimizer, error)
	}{
		{"VanillaSGD", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewVanillaSGD(p, optim.VanillaSGDConfig{LR: optim.NewLearningRate(0.1)})
		}},
		{"SGDMomentum", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewSGDMomentum(p, optim.SGDMomentumConfig{LR: optim.NewLearningRate(0.1), Momentum: 0.9})
		}},
		{"Nesterov", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewSGDMomentum(p, optim.SGDMomentumConfig{LR: optim.NewLearningRate(0.1), Momentum: 0.9, Nesterov: true})
		}},
		{"AdaGrad", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewAdaGrad(p, optim.AdaGradConfig{LR: optim.NewLearningRate(0.1)})
		}},
		{"AdaDelta", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewAdaDelta(p, optim.AdaDeltaConfig{})
		}},
		{"RMSProp", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewRMSProp(p, optim.RMSPropConfig{LR: optim.NewLearningRate(0.01)})
		}},
		{"Adam", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewAdam(p, optim.AdamConfig{LR: optim.NewLearningRate(0.01)})
		}},
		{"AdaMax", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewAdaMax(p, optim.AdaMaxConfig{LR: optim.NewLearningRate(0.01)})
		}},
		{"NAdam", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewNAdam(p, optim.NAdamConfig{LR: optim.NewLearningRate(0.01)})
		}},
		{"AMSGrad", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewAMSGrad(p, optim.AMSGradConfig{LR: optim.NewLearningRate(0.01)})
		}},
	}
}

func gradSequence(t *testing.T, n int) []*tensor.Tensor {
	t.Helper()
	grads := make([]*tensor.Tensor, n)
	for k := range grads {
		grads[k] = gradOf(t, []float32{0.5 + 0.1*float32(k), -0.3 - 0.05*float32(k)})
	}
	return grads
}

// TestGetUpdates_Idempotent checks a repeated call without Apply returns
// bit-identical values and touches nothing.
func TestGetUpdates_Idempotent(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			param := newParam(t, "w", []float32{1.5, -2.0})
			opt, err := f.build([]*optim.Parameter{param})
			require.NoError(t, err)

			// Advance once so the state is non-trivial.
			step(t, opt, gradOf(t, []float32{0.4, 0.7}))

			g := gradOf(t, []float32{0.2, -0.1})
			before := param.Tensor().Clone()

			u1, err := opt.GetUpdates([]*tensor.Tensor{g})
			require.NoError(t, err)
			u2, err := opt.GetUpdates([]*tensor.Tensor{g})
			require.NoError(t, err)

			assert.True(t, u1.Equal(u2), "update sets differ across identical calls")
			assert.True(t, param.Tensor().Equal(before), "GetUpdates mutated the parameter")
		})
	}
}

// TestReset_MatchesFresh checks a reset optimizer reproduces the fresh
// trajectory exactly.
func TestReset_MatchesFresh(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			initial := []float32{1.5, -2.0}
			param := newParam(t, "w", initial)
			opt, err := f.build([]*optim.Parameter{param})
			require.NoError(t, err)

			grads := gradSequence(t, 3)
			for _, g := range grads {
				step(t, opt, g)
			}
			firstRun := param.Tensor().Clone()

			opt.Reset()
			restored, err := tensor.FromSlice(initial, tensor.Shape{2})
			require.NoError(t, err)
			param.Tensor().CopyFrom(restored)

			for _, g := range grads {
				step(t, opt, g)
			}

			assert.True(t, param.Tensor().Equal(firstRun),
				"reset trajectory diverged: got %v, want %v",
				param.Tensor().Data(), firstRun.Data())
		})
	}
}

// TestStateDictRoundTrip checks that restoring exported state into a new
// optimizer continues the trajectory exactly.
func TestStateDictRoundTrip(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			paramA := newParam(t, "w", []float32{1.5, -2.0})
			optA, err := f.build([]*optim.Parameter{paramA})
			require.NoError(t, err)

			grads := gradSequence(t, 6)
			for _, g := range grads[:3] {
				step(t, optA, g)
			}

			// Checkpoint: parameter values plus optimizer state.
			paramB := optim.NewParameter("w", paramA.Tensor().Clone())
			optB, err := f.build([]*optim.Parameter{paramB})
			require.NoError(t, err)
			require.NoError(t, optB.LoadStateDict(optA.StateDict()))

			for _, g := range grads[3:] {
				step(t, optA, g)
				step(t, optB, g)
			}

			assert.True(t, paramA.Tensor().Equal(paramB.Tensor()),
				"restored trajectory diverged: got %v, want %v",
				paramB.Tensor().Data(), paramA.Tensor().Data())
		})
	}
}

// TestGetUpdates_ShapeMismatch checks both failure modes: wrong gradient
// count and wrong gradient shape. Nothing may be mutated.
func TestGetUpdates_ShapeMismatch(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			param := newParam(t, "w", []float32{1.0, 2.0})
			opt, err := f.build([]*optim.Parameter{param})
			require.NoError(t, err)
			before := param.Tensor().Clone()

			_, err = opt.GetUpdates(nil)
			require.ErrorIs(t, err, optim.ErrShapeMismatch, "wrong count")

			bad := gradOf(t, []float32{1.0, 2.0, 3.0})
			_, err = opt.GetUpdates([]*tensor.Tensor{bad})
			require.ErrorIs(t, err, optim.ErrShapeMismatch, "wrong shape")

			assert.True(t, param.Tensor().Equal(before))
		})
	}
}

func TestLoadStateDict_ShapeMismatch(t *testing.T) {
	param := newParam(t, "w", []float32{1.0, 2.0})
	opt, err := optim.NewAdam([]*optim.Parameter{param}, optim.AdamConfig{})
	require.NoError(t, err)

	bad := map[string]*tensor.Tensor{"m.0": tensor.Zeros(tensor.Shape{3})}
	require.ErrorIs(t, opt.LoadStateDict(bad), optim.ErrShapeMismatch)

	// State must be untouched after the failed load.
	assert.True(t, opt.StateDict()["m.0"].Equal(tensor.Zeros(tensor.Shape{2})))
}

func TestInvalidHyperparameters(t *testing.T) {
	param := newParam(t, "w", []float32{1.0})
	params := []*optim.Parameter{param}

	_, err := optim.NewAdam(params, optim.AdamConfig{Beta1: 1.5})
	require.ErrorIs(t, err, optim.ErrInvalidHyperparameter)

	_, err = optim.NewRMSProp(params, optim.RMSPropConfig{Gamma: -0.2})
	require.ErrorIs(t, err, optim.ErrInvalidHyperparameter)

	_, err = optim.NewAdaGrad(params, optim.AdaGradConfig{
		LR: optim.NewLearningRate(0.1), Eps: -1e-6,
	})
	require.ErrorIs(t, err, optim.ErrInvalidHyperparameter)

	_, err = optim.NewNAdam(params, optim.NAdamConfig{Beta2: 1.0})
	require.ErrorIs(t, err, optim.ErrInvalidHyperparameter)

	_, err = optim.NewAMSGrad(params, optim.AMSGradConfig{Eps: math32.NaN()})
	require.ErrorIs(t, err, optim.ErrInvalidHyperparameter)

	_, err = optim.NewVanillaSGD(params, optim.VanillaSGDConfig{LR: optim.NewLearningRate(-0.1)})
	require.ErrorIs(t, err, optim.ErrInvalidHyperparameter)
}

// TestConvergence_Quadratic runs each descent rule on f(x) = x², df/dx = 2x.
//
// AdaGrad (assign-form update) and AdaDelta (unit rms ratio on a symmetric
// quadratic) are not descent rules on this function; their exact semantics
// are pinned in adaptive_test.go instead.
func TestConvergence_Quadratic(t *testing.T) {
	cases := []struct {
		name      string
		build     func(p []*optim.Parameter) (optim.Optimizer, error)
		steps     int
		threshold float32
	}{
		{"VanillaSGD", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewVanillaSGD(p, optim.VanillaSGDConfig{LR: optim.NewLearningRate(0.1)})
		}, 100, 0.01},
		{"SGDMomentum", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewSGDMomentum(p, optim.SGDMomentumConfig{LR: optim.NewLearningRate(0.1), Momentum: 0.9})
		}, 100, 0.1},
		{"Nesterov", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewSGDMomentum(p, optim.SGDMomentumConfig{LR: optim.NewLearningRate(0.1), Momentum: 0.9, Nesterov: true})
		}, 100, 0.1},
		{"RMSProp", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewRMSProp(p, optim.RMSPropConfig{LR: optim.NewLearningRate(0.05), Eps: 1.0})
		}, 300, 0.1},
		{"Adam", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewAdam(p, optim.AdamConfig{LR: optim.NewLearningRate(0.1)})
		}, 100, 0.1},
		{"AdaMax", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewAdaMax(p, optim.AdaMaxConfig{LR: optim.NewLearningRate(0.1)})
		}, 300, 0.2},
		{"NAdam", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewNAdam(p, optim.NAdamConfig{LR: optim.NewLearningRate(0.1), Beta1: 0.9})
		}, 200, 0.2},
		{"AMSGrad", func(p []*optim.Parameter) (optim.Optimizer, error) {
			return optim.NewAMSGrad(p, optim.AMSGradConfig{LR: optim.NewLearningRate(0.1)})
		}, 300, 0.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			param := newParam(t, "x", []float32{3.0})
			opt, err := tc.build([]*optim.Parameter{param})
			require.NoError(t, err)

			for i := 0; i < tc.steps; i++ {
				x := param.Tensor().At(0)
				step(t, opt, gradOf(t, []float32{2 * x}))
			}

			final := param.Tensor().At(0)
			assert.Less(t, math32.Abs(final), tc.threshold,
				"after %d steps x = %f", tc.steps, final)
		})
	}
}
