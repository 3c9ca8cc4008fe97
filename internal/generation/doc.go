// Package generation provides interfaces and error taxonomy for interacting
// with external AI/LLM services for content generation. It abstracts the
// details of LLM API integration (Gemini), allowing the application to turn
// study material into summaries, diagrams, and flashcards, and to answer
// follow-up questions, without coupling to specific external services.
package generation
