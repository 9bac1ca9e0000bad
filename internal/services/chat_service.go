package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"finbuddy/internal/advice"
	"finbuddy/internal/chat"
	"finbuddy/internal/core"
	"finbuddy/internal/storage"
)

// Apology is returned when the model call succeeds but yields no usable
// text. It is a fixed string so clients never see an empty reply.
const Apology = "Sorry, I could not come up with an answer this time. Please try asking again."

// ChatService answers user questions: it builds a financial context from
// the ledger, attempts the external model once, and falls back to the
// deterministic advice engine on any failure. Callers always get a reply,
// never a model error.
type ChatService struct {
	storage      *storage.Repository
	generator    chat.Generator
	serverAPIKey string
}

func NewChatService(storage *storage.Repository, generator chat.Generator, serverAPIKey string) *ChatService {
	return &ChatService{
		storage:      storage,
		generator:    generator,
		serverAPIKey: serverAPIKey,
	}
}

// Reply produces the chat answer for a user's question. The returned error
// covers ledger failures only; model failures are absorbed by the fallback.
func (s *ChatService) Reply(ctx context.Context, userID int64, question string) (string, error) {
	var (
		user     core.User
		expenses []core.Expense
	)

	// Both ledger reads must complete before the context block is built.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.storage.GetUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		list, err := s.storage.ListExpensesSince(gctx, userID, core.MonthStart(time.Now()))
		if err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		expenses = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	snapshot := core.ComputeSnapshot(user.MonthlyIncome, user.SavingsGoal, expenses)
	facts := advice.FactsFrom(snapshot)

	apiKey := user.GeminiAPIKey
	if apiKey == "" {
		apiKey = s.serverAPIKey
	}
	if s.generator == nil || apiKey == "" {
		slog.InfoContext(ctx, "No model available, using advice fallback",
			"user_id", userID, "operation", "fallback")
		return advice.Answer(question, facts, expenses), nil
	}

	prompt := chat.BuildPrompt(chat.BuildContext(snapshot, expenses), question)

	text, err := s.generator.Generate(ctx, apiKey, prompt)
	if err != nil {
		// Single best-effort attempt; transport errors, timeouts and
		// unusable payloads all land here.
		slog.WarnContext(ctx, "Model call failed, using advice fallback",
			"error", err, "user_id", userID, "operation", "fallback")
		return advice.Answer(question, facts, expenses), nil
	}
	if text == "" {
		slog.WarnContext(ctx, "Model returned no text",
			"user_id", userID, "operation", "generate")
		return Apology, nil
	}

	return text, nil
}
