// Package gemini implements the generation.Generator interface using
// Google's Gemini API. It owns the three request/response concerns of the
// pipeline: building multimodal prompts parameterized by diagram category,
// decoding the structured reply into the domain model (with a single repair
// pass for fenced JSON), and re-assembling the full grounding context for
// stateless follow-up question answering.
package gemini
