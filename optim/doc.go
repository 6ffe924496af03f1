// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-based update rules for iterative
// numerical training loops.
//
// # Overview
//
// This package contains:
//   - VanillaSGD, SGDMomentum (classical and Nesterov)
//   - AdaGrad, AdaDelta, RMSProp
//   - Adam, AdaMax, NAdam, AMSGrad
//   - Anneal: external learning-rate schedules
//   - Optimizer interface for custom update rules
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/descent/optim"
//	    "github.com/born-ml/descent/tensor"
//	)
//
//	func main() {
//	    w, _ := tensor.FromSlice(weights, tensor.Shape{784, 10})
//	    params := []*optim.Parameter{optim.NewParameter("weight", w)}
//
//	    lr := optim.NewLearningRate(0.001)
//	    opt, err := optim.NewAdam(params, optim.AdamConfig{LR: lr})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for step := 0; step < numSteps; step++ {
//	        grads := computeGradients(params) // external collaborator
//	        updates, err := opt.GetUpdates(grads)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        updates.Apply()
//	    }
//	}
//
// # Update Sets
//
// GetUpdates is a pure function of the optimizer's state and the gradients:
// it proposes new values for every parameter and every auxiliary state slot
// without writing anything. Apply commits the whole batch as one logical
// step, so parameters and state always advance together.
//
// # Learning-Rate Scheduling
//
// The base rate lives in a LearningRate cell owned by the training loop and
// shared with the optimizer. Anneal mutates the cell in place:
//
//	for step := 0; step < numSteps; step++ {
//	    // ... GetUpdates / Apply ...
//	    optim.Anneal(lr, step, optim.AnnealStep, optim.AnnealOptions{Step: 1000})
//	}
package optim
