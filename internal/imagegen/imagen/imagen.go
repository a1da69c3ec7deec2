// Package imagen generates images with Google's Imagen models.
package imagen

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-chat/internal/imagegen"
)

const (
	DefaultModel       = "imagen-4.0-fast-generate-001"
	DefaultAspectRatio = "16:9"
)

type imageModels interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Generator implements imagegen.Generator.
type Generator struct {
	models      imageModels
	model       string
	aspectRatio string
}

// New wraps an SDK client.
func New(client *genai.Client, model, aspectRatio string) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("genai client is nil")
	}
	return newWithModels(client.Models, model, aspectRatio), nil
}

func newWithModels(models imageModels, model, aspectRatio string) *Generator {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(aspectRatio) == "" {
		aspectRatio = DefaultAspectRatio
	}
	return &Generator{models: models, model: model, aspectRatio: aspectRatio}
}

func (g *Generator) Model() string { return g.model }

// Generate requests a single image for prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (imagegen.Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return imagegen.Image{}, fmt.Errorf("imagen: empty prompt")
	}
	resp, err := g.models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    g.aspectRatio,
	})
	if err != nil {
		return imagegen.Image{}, fmt.Errorf("imagen generate: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return imagegen.Image{}, imagegen.ErrNoImage
	}
	first := resp.GeneratedImages[0]
	if first == nil || first.Image == nil || len(first.Image.ImageBytes) == 0 {
		if first != nil && first.RAIFilteredReason != "" {
			return imagegen.Image{}, fmt.Errorf("%w: filtered: %s", imagegen.ErrNoImage, first.RAIFilteredReason)
		}
		return imagegen.Image{}, imagegen.ErrNoImage
	}
	return imagegen.Image{Bytes: first.Image.ImageBytes, MIMEType: first.Image.MIMEType}, nil
}
