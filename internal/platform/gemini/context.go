package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/studymap/studymap-api/internal/domain"
)

// assembleFollowUpParts reconstructs the complete grounding context for one
// follow-up question. The generation service holds no memory between calls,
// so every call re-attaches the original file payload (if any) and re-sends
// the source text, the full prior transcript, and the new question.
func assembleFollowUpParts(
	material domain.SourceMaterial,
	priorTurns []domain.ConversationTurn,
	question string,
) ([]*genai.Part, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}

	var parts []*genai.Part
	if material.HasFile() {
		parts = append(parts, genai.NewPartFromBytes(material.File.Data, material.File.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(followUpInstructions(material.Text, priorTurns, question)))

	return parts, nil
}

// followUpInstructions renders the instruction text embedding the source
// text, the transcript serialized as "ROLE: content" lines in chronological
// order, the new question, and the strict-grounding directive.
func followUpInstructions(
	sourceText string,
	priorTurns []domain.ConversationTurn,
	question string,
) string {
	var b strings.Builder

	b.WriteString("You are a study assistant answering questions about the study material provided.\n\n")

	if sourceText != "" {
		fmt.Fprintf(&b, "Study material:\n%s\n\n", sourceText)
	}

	if len(priorTurns) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, turn := range priorTurns {
			fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(turn.Role)), turn.Content)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "New question: %s\n\n", question)
	b.WriteString("Answer strictly from the provided material and conversation. " +
		"If the material does not contain the answer, say that it does not. " +
		"Reply in plain text without markdown formatting.")

	return b.String()
}
