// Package tui drives form screens from a terminal. A Session prompts each
// field through a PromptDriver, feeds the answers to a form controller as
// change and blur events, and loops on the fields that block submission.
package tui
