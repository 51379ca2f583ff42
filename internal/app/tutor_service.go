package app

import (
	"context"
	"errors"
	"strings"

	"tutorchat/internal/ai"
)

var ErrMessageEmpty = errors.New("message is empty")

// tutorSystemPrompt is sent with every request; each question is a fresh
// single-turn conversation.
const tutorSystemPrompt = "You are a friendly and patient school tutor. " +
	"Explain concepts clearly, step by step, in language a student can follow. " +
	"Keep every answer under 500 words."

const fallbackReply = "I could not generate a text reply."

// Completer abstracts the model-API client so tests can stub the upstream.
type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, system string, messages []ai.ChatMessage) (string, error)
	StreamComplete(ctx context.Context, cfg ai.ChatConfig, system string, messages []ai.ChatMessage, onChunk func(string) error) (string, error)
}

type TutorService struct {
	client Completer
	llm    ai.ChatConfig
}

func NewTutorService(client Completer, llm ai.ChatConfig) *TutorService {
	return &TutorService{
		client: client,
		llm:    llm,
	}
}

func (s *TutorService) Ask(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMessageEmpty
	}

	reply, err := s.client.Complete(ctx, s.llm, tutorSystemPrompt, []ai.ChatMessage{
		{Role: "user", Content: message},
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return fallbackReply, nil
	}
	return reply, nil
}

func (s *TutorService) AskStream(ctx context.Context, message string, onChunk func(string) error) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMessageEmpty
	}

	full, err := s.client.StreamComplete(ctx, s.llm, tutorSystemPrompt, []ai.ChatMessage{
		{Role: "user", Content: message},
	}, onChunk)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(full) == "" {
		return fallbackReply, nil
	}
	return full, nil
}
