package llm

import (
	"context"
	"fmt"

	"github.com/pocketprof/profreplay/internal/core"
)

// Mock is the terminal entry of every text-provider chain. Its output is fixed
// and deterministic so the whole system stays usable (and testable) with no
// credentials at all.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Configured() bool { return true }

func (m *Mock) Structure(ctx context.Context, transcript string) (core.Knowledge, error) {
	return MockKnowledge(), nil
}

// Narrate cycles through a fixed narration list, indexed by slide modulo list
// length. A negative slide index maps to the first entry.
func (m *Mock) Narrate(ctx context.Context, req core.NarrationRequest) (core.Narration, error) {
	idx := req.SlideIndex
	if idx < 0 {
		idx = 0
	}
	n := mockNarrations[idx%len(mockNarrations)]
	target := n.slide
	return core.Narration{Speech: n.speech, TargetSlide: &target}, nil
}

func (m *Mock) Answer(ctx context.Context, req core.AnswerRequest) (core.Narration, error) {
	speech := fmt.Sprintf(
		`That's a great question about %q. Based on the lecture content, the key point to understand is that neural networks learn through iterative weight adjustments using gradient descent. The activation function introduces non-linearity, allowing the network to learn complex patterns.`,
		req.Question,
	)
	return core.Narration{Speech: speech}, nil
}

var mockNarrations = []struct {
	speech string
	slide  int
}{
	{
		speech: "Welcome to today's lecture on Machine Learning Fundamentals. We'll be exploring neural networks, starting with the basics of how they process information and learn from data. Let's begin with the perceptron.",
		slide:  0,
	},
	{
		speech: "The perceptron is the fundamental building block of neural networks. It takes multiple inputs, applies weights to them, sums them up, and passes the result through an activation function to produce an output.",
		slide:  1,
	},
	{
		speech: "Now let's discuss loss functions, which are crucial for training neural networks. The loss function measures how well our model's predictions match the actual values.",
		slide:  2,
	},
}

// MockKnowledge is the offline stand-in for a structured lecture.
func MockKnowledge() core.Knowledge {
	return core.Knowledge{
		Summary: "This lecture covered neural network fundamentals, including perceptrons, activation functions, loss functions, and backpropagation. Key mathematical concepts include the perceptron equation, mean squared error, and gradient descent update rule.",
		KeyDefinitions: []string{
			"Perceptron: Simplest form of neural network with weighted inputs",
			"Activation Function: Introduces non-linearity to neurons",
			"Loss Function: Measures model performance",
			"Backpropagation: Algorithm for computing gradients using chain rule",
			"Gradient Descent: Optimization algorithm for weight updates",
		},
		Sections: []core.Section{
			{
				Title: "Introduction to Neural Networks",
				Concepts: []string{
					"Perceptron as the simplest neural network",
					"Input-weight-output relationship",
					"Role of activation functions",
				},
				EquationsLaTeX: []string{
					`y = \sigma(w_1x_1 + w_2x_2 + ... + w_nx_n + b)`,
					`\sigma(z) = \frac{1}{1 + e^{-z}}`,
				},
				StudentQuestions: []string{
					"What's the difference between the activation function and the loss function?",
				},
				Clarifications: []string{
					"Activation function introduces non-linearity in neurons",
					"Loss function measures model performance",
				},
			},
			{
				Title: "Loss Functions",
				Concepts: []string{
					"Mean Squared Error for regression",
					"Cross-entropy for classification",
					"Measuring prediction accuracy",
				},
				EquationsLaTeX: []string{
					`MSE = \frac{1}{n} \sum_{i=1}^{n} (y_{predicted} - y_{actual})^2`,
				},
				StudentQuestions: []string{},
				Clarifications:   []string{},
			},
			{
				Title: "Backpropagation and Learning",
				Concepts: []string{
					"Chain rule application",
					"Gradient descent optimization",
					"Weight updates through gradients",
				},
				EquationsLaTeX: []string{
					`w_{new} = w_{old} - \alpha \cdot \frac{\partial L}{\partial w}`,
				},
				StudentQuestions: []string{
					"How do we choose the learning rate?",
				},
				Clarifications: []string{
					"Learning rate typically ranges from 0.001 to 0.1",
					"Too high prevents convergence, too low slows training",
				},
			},
		},
	}
}
