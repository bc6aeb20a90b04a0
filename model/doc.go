// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model provides Net, a compact convolutional classifier for
// 32x32 RGB images built from depthwise separable and dilated convolutions.
//
// # Architecture
//
// Three convolution blocks, each a stack of
// convolution · BatchNorm2D · ReLU · Dropout stages, followed by global
// average pooling, a linear classifier and log-softmax:
//
//	convblock1  [N, 3, 32, 32]   -> [N, 64, 14, 14]  (last conv: stride 2, dilation 2)
//	convblock2  [N, 64, 14, 14]  -> [N, 64, 8, 8]    (dilated separable conv, 1x1, dilated conv)
//	convblock3  [N, 64, 8, 8]    -> [N, 64, 4, 4]    (last conv: 1x1, stride 2, padding 1)
//	gap         [N, 64, 4, 4]    -> [N, 64, 1, 1]
//	fc          [N, 64]          -> [N, 10]
//	log_softmax over the class dimension
//
// The default network has 179,397 trainable parameters. Convolutions carry
// no bias; each is followed by batch normalization.
//
// # Usage
//
//	backend := cpu.New()
//	cfg := model.DefaultConfig()
//	cfg.Seed = 42
//
//	net, err := model.New(cfg, backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	net.Eval()
//	logProbs := net.Forward(images) // [N, 10]
//	classes := net.Predict(images)  // []int of length N
//
// Training loops and optimizers live outside this package; parameters are
// exposed through Parameters and StateDict.
package model
