// Copyright 2025 The gdviz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package animation renders gradient descent with momentum over the rugged
// loss curve into a video, one frame per optimizer step.
//
// # Basic Usage
//
//	cfg := animation.DefaultConfig()
//	cfg.Output = "descent.gif"
//	cfg.DurationS = 5
//
//	a, err := animation.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary, err := a.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary.FinalTheta, summary.FinalLoss)
//
// # Encoders
//
// The output extension selects the encoder unless Config.Encoder is set:
// ".gif" writes an animated GIF, a path without extension becomes a
// directory of numbered PNG frames and anything else is piped to ffmpeg as
// H.264.
//
// # Headless Runs
//
// Simulate steps the optimizer and tracks the view window without drawing
// or encoding anything. The returned Summary carries the loss trajectory.
package animation
