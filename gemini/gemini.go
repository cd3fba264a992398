// Package gemini asks a Gemini model to dump the tables of a PDF statement.
//
// The model answers with the JSON dump format read by package jsontable.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/etnz/statement/jsontable"
	"github.com/etnz/statement/logger"
	"google.golang.org/genai"
)

// DefaultModel is fast and good at documents.
const DefaultModel = "gemini-2.5-flash"

// Generator generates content, as genai.Client.Models does.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient creates a Gemini client configured from the environment
// (GEMINI_API_KEY, or GOOGLE_GENAI_USE_VERTEXAI with GOOGLE_CLOUD_PROJECT and
// GOOGLE_CLOUD_LOCATION).
func NewClient(ctx context.Context) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client, nil
}

const prompt = "You extract tables from brokerage statement PDFs.\n\n" +
	"Task:\n" +
	"- Read every page of the attached statement, in order.\n" +
	"- For each page, list every table, in order from top to bottom.\n" +
	"- For each table, list every row, including header rows, context rows like \"Scrip_Symbol : 500116 IDBI - NAME\", subtotal rows and blank rows.\n" +
	"- For each row, list every cell from left to right, copying the text exactly as printed.\n" +
	"- An empty cell is null. Do not compute, reformat or merge anything.\n\n" +
	"Output STRICT JSON only: {\"pages\": [{\"tables\": [[[\"cell\", null]]]}]}.\n" +
	"Do NOT wrap the response in code fences.\n"

// schema describes the dump: pages of tables of rows of nullable strings.
var schema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"pages": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"tables": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString, Nullable: genai.Ptr(true)},
							},
						},
					},
				},
				Required: []string{"tables"},
			},
		},
	},
	Required: []string{"pages"},
}

// Extract sends pdf to model and decodes the tables it answers.
func Extract(ctx context.Context, g Generator, model string, pdf []byte) (*jsontable.Document, error) {
	if model == "" {
		model = DefaultModel
	}
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: "application/pdf", Data: pdf}},
			},
		},
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Temperature:      genai.Ptr[float32](0),
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("model", model).Int("bytes", len(pdf)).Msg("asking for tables")
	resp, err := g.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no response from model %s", model)
	}
	text := stripFences(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("empty response from model %s", model)
	}
	doc, err := jsontable.Decode(bytes.NewReader([]byte(text)), jsontable.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("invalid table dump from model %s: %w", model, err)
	}
	log.Debug().Str("model", model).Int("pages", doc.NumPages()).Msg("tables received")
	return doc, nil
}

// stripFences removes a markdown code fence wrapping s, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // language tag
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
