// Package persona holds the assistant's static identity configuration and
// renders it into the system prompt, the one-time support announcement,
// and the public about projection.
package persona

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// supportLinkPlaceholder is the token substituted into the support message
// template. A template without it is a startup configuration error.
const supportLinkPlaceholder = "{support_link}"

// Identity describes who the assistant is.
type Identity struct {
	Name    string `mapstructure:"name"    validate:"required"`
	Alias   string `mapstructure:"alias"   validate:"required"`
	Creator string `mapstructure:"creator" validate:"required"`
	Version string `mapstructure:"version" validate:"required"`
	Status  string `mapstructure:"status"  validate:"required"`
}

// Mission describes what the assistant is for.
type Mission struct {
	Primary      string `mapstructure:"primary"       validate:"required"`
	CurrentPhase string `mapstructure:"current_phase" validate:"required"`
	NextPhase    string `mapstructure:"next_phase"`
	FutureVision string `mapstructure:"future_vision" validate:"required"`
}

// Capabilities lists what the assistant can do now and what is planned.
type Capabilities struct {
	Current []string `mapstructure:"current" validate:"required,min=1"`
	Planned []string `mapstructure:"planned"`
}

type personality struct {
	Identity     Identity     `mapstructure:"identity"`
	Mission      Mission      `mapstructure:"mission"`
	CoreTraits   []string     `mapstructure:"core_traits" validate:"required,min=1"`
	Capabilities Capabilities `mapstructure:"capabilities"`
}

type responses struct {
	SupportMessage string `mapstructure:"support_message" validate:"required"`
	Deflection     string `mapstructure:"deflection"      validate:"required"`
	Fallback       string `mapstructure:"fallback"        validate:"required"`
}

// About is the projection of identity and mission fields exposed by the
// informational endpoint.
type About struct {
	Name         string `json:"name"`
	Creator      string `json:"creator"`
	Mission      string `json:"mission"`
	CurrentPhase string `json:"currentPhase"`
	NextPhase    string `json:"nextPhase"`
	Vision       string `json:"vision"`
}

// Persona is the immutable persona configuration, loaded once at startup.
type Persona struct {
	personality personality
	responses   responses
}

// Load reads and validates the two static persona documents. Any error
// here is fatal; the documents are never re-read after startup.
func Load(personalityPath, responsesPath string) (*Persona, error) {
	p := &Persona{}

	if err := loadDocument(personalityPath, &p.personality); err != nil {
		return nil, fmt.Errorf("personality document: %w", err)
	}
	if err := loadDocument(responsesPath, &p.responses); err != nil {
		return nil, fmt.Errorf("responses document: %w", err)
	}

	if !strings.Contains(p.responses.SupportMessage, supportLinkPlaceholder) {
		return nil, fmt.Errorf("support message template is missing the %s placeholder", supportLinkPlaceholder)
	}

	return p, nil
}

func loadDocument(path string, out any) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := validator.New().Struct(out); err != nil {
		return fmt.Errorf("invalid document %s: %w", path, err)
	}
	return nil
}

// Alias returns the short name replies are prefixed with.
func (p *Persona) Alias() string {
	return p.personality.Identity.Alias
}

// Deflection returns the canned reply for safety-filtered messages.
func (p *Persona) Deflection() string {
	return p.responses.Deflection
}

// Fallback returns the canned reply for failed completion calls.
func (p *Persona) Fallback() string {
	return p.responses.Fallback
}

// SystemPrompt renders the persona into the multi-section system prompt.
// Pure function of the loaded configuration.
func (p *Persona) SystemPrompt() string {
	id := p.personality.Identity
	mission := p.personality.Mission
	caps := p.personality.Capabilities

	return fmt.Sprintf(`You are %s (%s).

CORE IDENTITY:
- Created by: %s
- Version: %s
- Status: %s

MISSION:
Primary: %s
Current Phase: %s
Future Vision: %s

PERSONALITY TRAITS: %s

RESPONSE RULES:
1. BE TRUTHFUL - No sugar-coating, no false positivity
2. BE DIRECT - Straight answers, no fluff
3. BE CONCISE - Keep responses under 3-4 sentences
4. USE FORMATTING - Line breaks between ideas, bullet points for lists
5. STAY IN CHARACTER - You are %s, not a generic assistant

CAPABILITIES:
Current: %s
Planned: %s

Always format responses for readability.`,
		id.Name, id.Alias,
		id.Creator, id.Version, id.Status,
		mission.Primary, mission.CurrentPhase, mission.FutureVision,
		strings.Join(p.personality.CoreTraits, ", "),
		id.Alias,
		strings.Join(caps.Current, ", "),
		strings.Join(caps.Planned, ", "))
}

// SupportMessage substitutes the support link into the configured template.
func (p *Persona) SupportMessage(link string) string {
	return strings.ReplaceAll(p.responses.SupportMessage, supportLinkPlaceholder, link)
}

// About exposes identity and mission fields for the informational endpoint.
func (p *Persona) About() About {
	return About{
		Name:         p.personality.Identity.Name,
		Creator:      p.personality.Identity.Creator,
		Mission:      p.personality.Mission.Primary,
		CurrentPhase: p.personality.Mission.CurrentPhase,
		NextPhase:    p.personality.Mission.NextPhase,
		Vision:       p.personality.Mission.FutureVision,
	}
}
