package resumeparser

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Abraxas-365/skillpath/internal/pdf"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const (
	DefaultModel = "gpt-4o"

	// maxPages bounds the number of PDF pages sent to the vision model
	maxPages = 3
)

// ErrUnsupportedContent is returned for content the vision model cannot read
var ErrUnsupportedContent = errors.New("resumeparser: unsupported content type")

// SkillParser extracts skills from resume images and PDFs with an OpenAI vision model
type SkillParser struct {
	client *openai.Client
	model  string
}

func NewSkillParser(apiKey, model string) *SkillParser {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)
	if model == "" {
		model = DefaultModel
	}

	return &SkillParser{
		client: &client,
		model:  model,
	}
}

func (p *SkillParser) Name() string { return "openai" }

// Extract renders the document to JPEG pages and asks the model for the skills it lists
func (p *SkillParser) Extract(ctx context.Context, content []byte, contentType string) ([]kernel.Skill, error) {
	pages, err := toPages(content, contentType)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, errors.New("document has no pages")
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: buildMessages(pages),
		Model:    p.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return nil, fmt.Errorf("openai vision api error: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("no response from openai")
	}

	return parseSkills(completion.Choices[0].Message.Content)
}

// ============================================================================
// Helper Functions
// ============================================================================

const systemPrompt = `You are a technical recruiter. List the professional skills shown in the resume and return ONLY valid JSON.`

const userPrompt = `List every technical skill, tool, framework and methodology in this resume using this JSON structure:

{
  "skills": [{
    "name": string (canonical spelling, e.g. "JavaScript", "Node.js", "CI/CD"),
    "level": "beginner" | "intermediate" | "advanced" | "expert",
    "confidence": number between 0 and 1
  }]
}

Estimate the level from years of use and seniority of the roles. Return ONLY the JSON.`

func toPages(content []byte, contentType string) ([][]byte, error) {
	switch {
	case contentType == "application/pdf":
		return pdf.ConvertPDFToImages(content, maxPages)
	case contentType == "image/jpeg":
		return [][]byte{content}, nil
	case strings.HasPrefix(contentType, "image/"):
		img, err := pdf.ConvertImageToJPEG(content)
		if err != nil {
			return nil, err
		}
		return [][]byte{img}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}
}

func buildMessages(pages [][]byte) []openai.ChatCompletionMessageParamUnion {
	parts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{
				Type: constant.Text("text"),
				Text: userPrompt,
			},
		},
	}

	for _, page := range pages {
		parts = append(parts, openai.ChatCompletionContentPartUnionParam{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				Type: constant.ImageURL("image_url"),
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
					URL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(page),
					Detail: "high",
				},
			},
		})
	}

	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: parts,
				},
			},
		},
	}
}

type skillsResponse struct {
	Skills []struct {
		Name       string  `json:"name"`
		Level      string  `json:"level"`
		Confidence float64 `json:"confidence"`
	} `json:"skills"`
}

// parseSkills decodes the model reply. Blank names are dropped and
// confidence is clamped to [0, 1].
func parseSkills(content string) ([]kernel.Skill, error) {
	var resp skillsResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse skills JSON: %w", err)
	}

	out := make([]kernel.Skill, 0, len(resp.Skills))
	for _, s := range resp.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		out = append(out, kernel.Skill{
			Name:       kernel.SkillName(name),
			Level:      kernel.SkillLevel(strings.ToLower(s.Level)),
			Category:   kernel.CategoryOther,
			Confidence: min(max(s.Confidence, 0), 1),
		})
	}
	return out, nil
}
