// Package model defines the provider-agnostic language model contract used
// by agents: a normalized Request/Response pair, unified tool call shapes and
// the streaming Model interface. Concrete providers live in sub-packages
// (openai, anthropic); MockModel supports deterministic tests.
package model
