package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/FIFI1803/threadflow-studio/pkg/script"
	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

const systemPromptTemplate = `You are an expert viral script writer for TikTok and Instagram Reels.
Your goal is to take a social media thread (Reddit, Twitter/X) and convert it into a compelling video script.

The user wants a "%s" vibe.

Output NOTHING but a raw JSON object with this structure:
{
  "scenes": [
    {
      "id": 1,
      "dialogue": "Spoken words...",
      "visualInstruction": "Visual description...",
      "duration": "3s"
    }
  ]
}

Keep it under 60 seconds total. Make it engaging, fast-paced, and optimized for retention.`

// Service is the generation gateway: one outbound call to the completion
// service per invocation, no local state, no retries.
type Service struct {
	client *genai.Client
}

// NewService creates the completion service client. A missing API key is a
// configuration error and refuses construction.
func NewService(ctx context.Context, apiKey string) (*Service, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Service{client: client}, nil
}

// GenerateScript converts a social-media thread into a timed video script.
// The vibe tag defaults to "cinematic" when omitted or unrecognized. The
// caller's ctx bounds the call; a timeout surfaces as an UpstreamError.
func (s *Service) GenerateScript(ctx context.Context, threadContent, vibe string) (*script.Script, error) {
	if strings.TrimSpace(threadContent) == "" {
		return nil, ErrThreadContentRequired
	}
	vibe = script.NormalizeVibe(vibe)

	log.Debugf("Generating script, vibe=%s, thread length=%d", vibe, len(threadContent))

	model := s.client.GenerativeModel("gemini-1.5-flash")
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(systemPromptTemplate, vibe))},
	}

	userPrompt := fmt.Sprintf("Here is the thread content:\n\n%s", threadContent)

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		log.Errorf("Completion service call failed: %v", err)
		return nil, &UpstreamError{Message: err.Error()}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn("Completion service returned no candidates or content.")
		return nil, &UpstreamError{Message: "completion service returned no content"}
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		log.Errorf("Completion reply part is not text: %v", part)
		return nil, &UpstreamError{Message: "completion service returned non-text content"}
	}

	log.Debugf("Raw completion reply: %s", string(text))

	result, err := script.Parse(string(text))
	if err != nil {
		log.Errorf("Failed to parse completion reply: %v", err)
		return nil, &ParseError{Err: err}
	}

	log.Infof("Generated script with %d scenes (vibe: %s).", len(result.Scenes), vibe)
	return result, nil
}

// Close releases the underlying client connection.
func (s *Service) Close() error {
	log.Info("Closing Gemini client.")
	return s.client.Close()
}
