// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/recall/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const describeImagePrompt = `Describe this image in detail. If it contains text or ` +
	`mathematical equations, transcribe them in LaTeX format and explain their meaning. Be precise.`

// Describer implements ai.Describer using a vision-capable chat model.
type Describer struct {
	client llms.Model
	logger *slog.Logger
}

// newDescriber is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newDescriber(config *ai.Config) (*Describer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Describer{
		client: client,
		logger: slog.Default().With("component", "openai-describer"),
	}, nil
}

// NewDescriber creates a new image describer using the provided configuration.
//
// Returns ai.Describer interface to enforce abstraction.
func NewDescriber(config *ai.Config) (ai.Describer, error) {
	return newDescriber(config)
}

// DescribeImage analyzes the image bytes with the vision model and returns a
// textual description suitable for storage in the knowledge base.
func (d *Describer) DescribeImage(ctx context.Context, mimeType string, data []byte) (string, error) {
	d.logger.Debug("describing image", "mimeType", mimeType, "bytes", len(data))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(describeImagePrompt),
				llms.BinaryPart(mimeType, data),
			},
		},
	}

	response, err := d.client.GenerateContent(ctx, content, llms.WithMaxTokens(500))
	if err != nil {
		d.logger.Error("failed to describe image", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		return "", fmt.Errorf("vision model returned no choices")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
