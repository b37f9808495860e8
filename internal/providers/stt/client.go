package stt

import (
	"context"

	"github.com/pocketprof/profreplay/internal/config"
	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/pkg/log"
	"github.com/pocketprof/profreplay/pkg/retry"
)

// Client is the fallback-first transcription boundary: it never returns an
// error, degrading to the fixed mock transcript when Pulse is missing a
// credential or fails.
type Client struct {
	pulse   *Pulse
	retrier *retry.Retrier
}

var _ core.Transcriber = (*Client)(nil)

func NewClient(cfg *config.ProviderConfig) *Client {
	return NewClientWith(NewPulse(cfg.PulseAPIKey))
}

func NewClientWith(pulse *Pulse) *Client {
	return &Client{
		pulse:   pulse,
		retrier: retry.NewDefaultRetrier(),
	}
}

func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	logger := log.FromCtx(ctx)

	if c.pulse == nil || !c.pulse.Configured() {
		logger.Warn().Msg("pulse api key not configured, using mock transcript")
		return MockTranscript, nil
	}

	var transcript string
	err := c.retrier.Do(ctx, func() error {
		var attemptErr error
		transcript, attemptErr = c.pulse.Transcribe(ctx, audio)
		return attemptErr
	})
	if err != nil {
		logger.Warn().Err(err).Msg("transcription failed, falling back to mock transcript")
		return MockTranscript, nil
	}

	logger.Info().Int("audio_bytes", len(audio)).Msg("transcription completed")
	return transcript, nil
}

// MockTranscript is the deterministic offline transcript.
const MockTranscript = `Welcome to today's lecture on Machine Learning Fundamentals.

Today we'll be covering the basics of neural networks and how they learn from data.
Let's start with the concept of a perceptron, which is the simplest form of a neural network.

A perceptron takes multiple inputs, applies weights to them, and produces an output.
The mathematical formula is: y = sigma(w1*x1 + w2*x2 + ... + wn*xn + b), where sigma is the activation function.

Student question: "Professor, what's the difference between the activation function and the loss function?"

Great question! The activation function is applied to each neuron to introduce non-linearity,
while the loss function measures how well our model is performing. Common loss functions include
mean squared error for regression: MSE = (1/n) * sum((y_predicted - y_actual)^2).

Now let's move to backpropagation, which is how neural networks learn. The key insight is using
the chain rule from calculus to compute gradients. The gradient descent update rule is:
w_new = w_old - learning_rate * gradient.

Student question: "How do we choose the learning rate?"

Excellent question! The learning rate is typically chosen through experimentation. Common values
range from 0.001 to 0.1. Too high and the model won't converge, too low and training takes forever.

In summary, neural networks learn by adjusting weights through backpropagation, using activation
functions for non-linearity and loss functions to measure performance.`
