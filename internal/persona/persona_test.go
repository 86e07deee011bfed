package persona

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPersonality = `
identity:
  name: "Sapphire Artificial Intelligence"
  alias: "SapphAI"
  creator: "Solo-Dev"
  version: "1.0.0"
  status: "operational"
mission:
  primary: "Revolutionizing gaming with lifelike AI"
  current_phase: "Conversational companion"
  next_phase: "In-game presence"
  future_vision: "Lifelike AI companions in every game"
core_traits: ["truthful", "direct"]
capabilities:
  current: ["conversation"]
  planned: ["voice interaction"]
`

const testResponses = `
support_message: "Support development here: {support_link}"
deflection: "I can't discuss that topic."
fallback: "I'm experiencing technical difficulties."
`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test document: %v", err)
	}
	return path
}

func loadTestPersona(t *testing.T) *Persona {
	t.Helper()
	p, err := Load(writeDoc(t, "personality.yaml", testPersonality), writeDoc(t, "responses.yaml", testResponses))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return p
}

func TestSystemPrompt(t *testing.T) {
	t.Parallel()

	p := loadTestPersona(t)
	prompt := p.SystemPrompt()

	for _, want := range []string{
		"You are Sapphire Artificial Intelligence (SapphAI).",
		"Created by: Solo-Dev",
		"Primary: Revolutionizing gaming with lifelike AI",
		"PERSONALITY TRAITS: truthful, direct",
		"STAY IN CHARACTER - You are SapphAI",
		"Current: conversation",
		"Planned: voice interaction",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestSupportMessage(t *testing.T) {
	t.Parallel()

	p := loadTestPersona(t)
	got := p.SupportMessage("https://example.com/support")
	want := "Support development here: https://example.com/support"
	if got != want {
		t.Errorf("SupportMessage = %q, want %q", got, want)
	}
}

func TestAbout(t *testing.T) {
	t.Parallel()

	p := loadTestPersona(t)
	about := p.About()
	if about.Name != "Sapphire Artificial Intelligence" {
		t.Errorf("Name = %q", about.Name)
	}
	if about.Creator != "Solo-Dev" {
		t.Errorf("Creator = %q", about.Creator)
	}
	if about.NextPhase != "In-game presence" {
		t.Errorf("NextPhase = %q", about.NextPhase)
	}
}

func TestLoadRejectsMalformedSupportTemplate(t *testing.T) {
	t.Parallel()

	badResponses := `
support_message: "No placeholder here"
deflection: "d"
fallback: "f"
`
	_, err := Load(writeDoc(t, "personality.yaml", testPersonality), writeDoc(t, "responses.yaml", badResponses))
	if err == nil {
		t.Fatal("expected an error for a template without the support link placeholder")
	}
}

func TestLoadRejectsMissingDocument(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), writeDoc(t, "responses.yaml", testResponses))
	if err == nil {
		t.Fatal("expected an error for a missing personality document")
	}
}
