// Package composer assembles retrieved context and an incoming email into
// a grounded prompt for the generation provider.
package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"emailrag/internal/domain"
)

// FallbackMessage is returned to the user whenever the generation provider
// fails. Degrading to a fixed apology instead of surfacing the error is a
// deliberate user-facing policy.
const FallbackMessage = "I apologize, but I'm having trouble processing your request right now. Please try again later or contact support directly."

// SystemPrompt is the fixed instruction given to the generation provider.
const SystemPrompt = `You are a helpful academic assistant responding to student emails.

Your responsibilities:
- Answer student questions clearly and professionally
- Use provided context from documents when relevant
- Be supportive and encouraging
- Provide actionable advice when possible
- If you don't know something, be honest about it
- Keep responses concise but informative
- Maintain a friendly, professional tone

Always structure your responses with:
1. A greeting acknowledging their question
2. The main answer/information
3. Any additional helpful resources or next steps
4. A professional closing`

// Default generation bounds.
const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
)

// Composer builds prompts and invokes the generation provider.
type Composer struct {
	generator   domain.Generator
	maxTokens   int
	temperature float64
}

// New creates a composer bound to the given generator. Non-positive bounds
// fall back to the defaults.
func New(generator domain.Generator, maxTokens int, temperature float64) *Composer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &Composer{generator: generator, maxTokens: maxTokens, temperature: temperature}
}

// Compose builds the grounded prompt and returns the generated answer. Any
// provider failure is logged and converted to FallbackMessage.
func (c *Composer) Compose(ctx context.Context, email string, contexts []string) string {
	if c.generator == nil {
		log.Error("no generation provider configured")
		return FallbackMessage
	}
	prompt := BuildPrompt(email, contexts)
	answer, err := c.generator.Complete(ctx, SystemPrompt, prompt, c.maxTokens, c.temperature)
	if err != nil {
		log.Error("answer generation failed", "provider", c.generator.Name(), "err", err)
		return FallbackMessage
	}
	return answer
}

// BuildPrompt embeds the email body and an enumerated list of context
// fragments into a single prompt string.
func BuildPrompt(email string, contexts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student Email:\n%s\n\n", email)
	if len(contexts) > 0 {
		b.WriteString("Relevant Information from Documents:\n")
		for i, chunk := range contexts {
			fmt.Fprintf(&b, "%d. %s\n\n", i+1, chunk)
		}
	}
	b.WriteString("Please provide a helpful, professional response to this student email. ")
	b.WriteString("Use the relevant information provided above when applicable. ")
	b.WriteString("Be concise but thorough, and maintain a friendly, supportive tone.")
	return b.String()
}
