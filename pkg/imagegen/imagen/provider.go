package imagen

import (
	"context"
	"fmt"

	"citystyle-be/pkg/imagegen"
	"citystyle-be/pkg/llm/gemini"

	genai "google.golang.org/genai"
)

// MaxImagesPerCall is the Imagen limit on NumberOfImages.
const MaxImagesPerCall = 4

// imageGenerator is the subset of *genai.Models the provider needs.
type imageGenerator interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

type ImagenProvider struct {
	models imageGenerator
	model  string
}

var _ imagegen.Provider = &ImagenProvider{}

func NewImagenProvider(cli *genai.Client, model string) *ImagenProvider {
	return &ImagenProvider{models: cli.Models, model: model}
}

// Generate issues sequential batches until count images are collected.
func (p *ImagenProvider) Generate(ctx context.Context, prompt string, count int, size imagegen.Size) ([]imagegen.Image, error) {
	images := make([]imagegen.Image, 0, count)
	for remaining := count; remaining > 0; {
		batch := min(remaining, MaxImagesPerCall)

		resp, err := p.models.GenerateImages(ctx, p.model, prompt, &genai.GenerateImagesConfig{
			NumberOfImages:   int32(batch),
			AspectRatio:      size.AspectRatio(),
			PersonGeneration: genai.PersonGenerationDontAllow,
			OutputMIMEType:   "image/png",
		})
		if err != nil {
			return nil, gemini.ClassifyError(err)
		}

		got := collect(resp)
		if len(got) < batch {
			return nil, fmt.Errorf("%w: batch got %d, want %d", imagegen.ErrShortResult, len(got), batch)
		}
		images = append(images, got[:batch]...)
		remaining -= batch
	}
	return images, nil
}

func collect(resp *genai.GenerateImagesResponse) []imagegen.Image {
	if resp == nil {
		return nil
	}
	out := make([]imagegen.Image, 0, len(resp.GeneratedImages))
	for _, gen := range resp.GeneratedImages {
		if gen == nil || gen.Image == nil {
			continue
		}
		img := gen.Image
		switch {
		case len(img.ImageBytes) > 0:
			mime := img.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			out = append(out, imagegen.Image{Data: img.ImageBytes, MIMEType: mime})
		case img.GCSURI != "":
			out = append(out, imagegen.Image{URL: img.GCSURI, MIMEType: img.MIMEType})
		}
	}
	return out
}
