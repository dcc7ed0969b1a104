package script

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Scene is one timed unit of the generated video script: spoken dialogue plus
// a visual direction for the editor.
type Scene struct {
	ID                int    `json:"id"`
	Dialogue          string `json:"dialogue"`
	VisualInstruction string `json:"visualInstruction"`
	Duration          string `json:"duration"` // string-encoded, e.g. "3s"
}

// Script is the ordered scene sequence produced by one generation call.
// Immutable after creation.
type Script struct {
	Scenes []Scene `json:"scenes"`
}

// Supported vibe tags. Anything else falls back to VibeCinematic.
const (
	VibeCinematic  = "cinematic"
	VibeMinimalist = "minimalist"
	VibeFastPaced  = "fast-paced"
)

var supportedVibes = map[string]bool{
	VibeCinematic:  true,
	VibeMinimalist: true,
	VibeFastPaced:  true,
}

// NormalizeVibe maps an omitted or unrecognized vibe tag to the default.
func NormalizeVibe(vibe string) string {
	vibe = strings.ToLower(strings.TrimSpace(vibe))
	if !supportedVibes[vibe] {
		return VibeCinematic
	}
	return vibe
}

// DeriveTitle builds a project title from the source thread text: the first
// 50 characters plus an ellipsis. Shorter threads keep their full text, the
// suffix is always appended.
func DeriveTitle(threadContent string) string {
	runes := []rune(threadContent)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes) + "..."
}

// Parse decodes a raw completion reply into a Script. Markdown code fences
// are stripped first since the model occasionally wraps its JSON in them.
// Scene ordinals are rewritten to a dense 1..N sequence in reply order, so a
// successfully parsed Script always satisfies the ordinal invariant.
func Parse(raw string) (*Script, error) {
	cleaned := stripFences(raw)

	var s Script
	if err := json.Unmarshal([]byte(cleaned), &s); err != nil {
		return nil, fmt.Errorf("malformed completion reply: %w", err)
	}
	if len(s.Scenes) == 0 {
		return nil, fmt.Errorf("completion reply contains no scenes")
	}
	for i := range s.Scenes {
		if strings.TrimSpace(s.Scenes[i].Dialogue) == "" {
			return nil, fmt.Errorf("scene %d has empty dialogue", i+1)
		}
		s.Scenes[i].ID = i + 1
	}
	return &s, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, from the model reply.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
