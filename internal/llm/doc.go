// Package llm builds review prompts and validates untrusted model output.
// Model text is adversarial input: everything here is non-throwing, and
// anything that cannot be salvaged into a valid issue is surfaced as data.
package llm
