package optim_test

import (
	"testing"

	"github.com/born-ml/descent/internal/optim"
	"github.com/born-ml/descent/internal/tensor"
)

// TestAdam_FirstStep pins the bias-corrected rate at t=1:
// a_1 = lr * sqrt(1-0.999) / (1-0.9), which makes the first step exactly lr
// for a unit gradient (up to eps).
func TestAdam_FirstStep(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewAdam([]*optim.Parameter{param},
		optim.AdamConfig{LR: optim.NewLearningRate(0.001)})
	if err != nil {
		t.Fatalf("NewAdam: %v", err)
	}

	// m_1 = 0.1, v_1 = 0.001
	// a_1 = 0.001*sqrt(0.001)/0.1, step = a_1*0.1/(sqrt(0.001)+1e-8) ~= 0.001
	step(t, opt, gradOf(t, []float32{1.0}))
	if got := param.Tensor().At(0); !floatEqual(got, 0.999, 1e-5) {
		t.Errorf("Adam first step: got %f, want 0.999", got)
	}
	if opt.Timestep() != 1 {
		t.Errorf("timestep: got %d, want 1", opt.Timestep())
	}
}

// TestAdam_TimestepPerCall checks t advances once per call, not once per
// parameter, and only when the update set is applied.
func TestAdam_TimestepPerCall(t *testing.T) {
	p1 := newParam(t, "a", []float32{1.0, 2.0})
	p2 := newParam(t, "b", []float32{3.0})
	opt, err := optim.NewAdam([]*optim.Parameter{p1, p2}, optim.AdamConfig{})
	if err != nil {
		t.Fatalf("NewAdam: %v", err)
	}

	g1 := gradOf(t, []float32{1.0, 1.0})
	g2 := gradOf(t, []float32{1.0})

	updates, err := opt.GetUpdates([]*tensor.Tensor{g1, g2})
	if err != nil {
		t.Fatalf("GetUpdates: %v", err)
	}
	if opt.Timestep() != 0 {
		t.Errorf("timestep before Apply: got %d, want 0", opt.Timestep())
	}

	updates.Apply()
	if opt.Timestep() != 1 {
		t.Errorf("timestep after one call over two params: got %d, want 1", opt.Timestep())
	}
}

// TestAdaMax_FirstStep pins a_1 = lr/(1-beta1) and the infinity-norm
// denominator.
func TestAdaMax_FirstStep(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewAdaMax([]*optim.Parameter{param}, optim.AdaMaxConfig{})
	if err != nil {
		t.Fatalf("NewAdaMax: %v", err)
	}

	// Defaults: lr = 2e-3, beta1 = 0.9.
	// m_1 = 0.1, u_1 = max(0, |1|) = 1
	// a_1 = 0.002/0.1 = 0.02, step = 0.02*0.1/(1+1e-8) ~= 0.002
	step(t, opt, gradOf(t, []float32{1.0}))
	if got := param.Tensor().At(0); !floatEqual(got, 0.998, 1e-6) {
		t.Errorf("AdaMax first step: got %f, want 0.998", got)
	}
}

// TestNAdam_FirstStep pins one step of the decayed-momentum interpolation
// against hand-computed values (beta1=0.9, default schedule).
func TestNAdam_FirstStep(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewNAdam([]*optim.Parameter{param},
		optim.NAdamConfig{LR: optim.NewLearningRate(0.001), Beta1: 0.9})
	if err != nil {
		t.Fatalf("NewNAdam: %v", err)
	}

	// b_1 = 0.9*(1-0.5*0.96^(1/250)) = 0.45007348
	// b_2 = 0.9*(1-0.5*0.96^(2/250)) = 0.45014693
	// acc = 0.45007348
	// g^  = 1/(1-acc)            = 1.8184230
	// m^  = 0.1/(1-acc*b_2)      = 0.12540744
	// n^  = 0.001/(1-0.999)      = 1
	// m~  = 0.1*g^ + b_2*m^      = 0.23829408
	// x_1 = 1 - 0.001*m~/(1+1e-8) = 0.99976171
	step(t, opt, gradOf(t, []float32{1.0}))
	if got := param.Tensor().At(0); !floatEqual(got, 0.99976171, 1e-5) {
		t.Errorf("NAdam first step: got %f, want 0.99976171", got)
	}
}

// TestAMSGrad_FirstStep pins a_1 with the class default beta2 = 0.99.
func TestAMSGrad_FirstStep(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewAMSGrad([]*optim.Parameter{param}, optim.AMSGradConfig{})
	if err != nil {
		t.Fatalf("NewAMSGrad: %v", err)
	}

	// a_1 = 0.001*sqrt(1-0.99)/(1-0.9) = 0.001
	// m_1 = 0.1, v_1 = 0.01, v^_1 = 0.01
	// step = 0.001*0.1/(0.1+1e-8) ~= 0.001
	step(t, opt, gradOf(t, []float32{1.0}))
	if got := param.Tensor().At(0); !floatEqual(got, 0.999, 1e-6) {
		t.Errorf("AMSGrad first step: got %f, want 0.999", got)
	}
}

// TestAMSGrad_MonotoneSecondMoment checks v^ never decreases even when the
// gradients collapse to zero.
func TestAMSGrad_MonotoneSecondMoment(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewAMSGrad([]*optim.Parameter{param}, optim.AMSGradConfig{})
	if err != nil {
		t.Fatalf("NewAMSGrad: %v", err)
	}

	prev := float32(0)
	grads := []float32{4.0, 2.0, 1.0, 0.0, 0.0, 0.0}
	for i, g := range grads {
		step(t, opt, gradOf(t, []float32{g}))
		vHat := opt.StateDict()["v_hat.0"].At(0)
		if vHat < prev {
			t.Fatalf("v_hat decreased at step %d: %f -> %f", i+1, prev, vHat)
		}
		prev = vHat
	}
	if prev <= 0 {
		t.Errorf("v_hat never grew: %f", prev)
	}
}

// TestAMSGrad_EtaDecaySchedule checks the pluggable learning-rate decay is
// applied to the bias-corrected rate.
func TestAMSGrad_EtaDecaySchedule(t *testing.T) {
	param := newParam(t, "x", []float32{1.0})
	opt, err := optim.NewAMSGrad([]*optim.Parameter{param}, optim.AMSGradConfig{
		LR:    optim.NewLearningRate(0.001),
		Decay: func(eta, st float32) float32 { return eta / st },
	})
	if err != nil {
		t.Fatalf("NewAMSGrad: %v", err)
	}

	// Same as the default first step (t=1 leaves eta unchanged).
	step(t, opt, gradOf(t, []float32{1.0}))
	if got := param.Tensor().At(0); !floatEqual(got, 0.999, 1e-6) {
		t.Errorf("step 1 with eta/t decay: got %f, want 0.999", got)
	}
}
