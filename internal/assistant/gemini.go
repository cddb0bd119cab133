package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Prompt builds the instruction sent to the model
func Prompt(brand, productName string) string {
	return fmt.Sprintf("Eres un chef experto de la hamburguesería \"%s\". "+
		"Crea una descripción corta (máximo 80 caracteres), irresistible y gourmet para un plato llamado \"%s\". "+
		"Usa palabras que despierten el hambre y un tono premium.", brand, productName)
}

// GeminiGenerator generates descriptions with the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
	brand  string
}

// NewGeminiGenerator creates a generator. It returns ErrNotConfigured without an API key.
func NewGeminiGenerator(ctx context.Context, apiKey, model, brand string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		brand:  brand,
	}, nil
}

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, productName string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(g.brand, productName)), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

var _ Generator = (*GeminiGenerator)(nil)
