package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"erpchat/command"
	"erpchat/models"
	"erpchat/validation"
)

// EmptyInputText is returned when a chat request carries no input.
const EmptyInputText = "Please provide user_input."

// historyWriteTimeout bounds the history append, which outlives the request context.
const historyWriteTimeout = 10 * time.Second

// Chatbot routes chat input to the transaction executor or the query pipeline and
// records every answer in the history.
type Chatbot struct {
	executor *TransactionExecutor
	pipeline *QueryPipeline
	history  HistoryStore
	logger   *logrus.Entry
}

func NewChatbot(executor *TransactionExecutor, pipeline *QueryPipeline, history HistoryStore, logger *logrus.Entry) *Chatbot {
	return &Chatbot{
		executor: executor,
		pipeline: pipeline,
		history:  history,
		logger:   logger,
	}
}

func (c *Chatbot) History(ctx context.Context) ([]models.ChatMessage, error) {
	return c.history.Load(ctx)
}

// Respond answers one chat request. It never fails: errors are reported in the
// envelope text. A missing chat id starts a new conversation.
func (c *Chatbot) Respond(ctx context.Context, req models.ChatRequest) models.Envelope {
	input := validation.NormalizeInput(req.UserInput)
	chatID := req.ChatID
	if chatID == "" {
		chatID = uuid.NewString()
	}
	log := c.logger.WithField("chat_id", chatID)

	if input == "" {
		return models.Envelope{ChatMessage: models.ChatMessage{
			FinalTextResponse: EmptyInputText,
			Timestamp:         models.Timestamp(time.Now()),
			ChatID:            chatID,
		}}
	}

	var env models.Envelope
	if cmd, ok := command.Parse(input); ok {
		log.WithFields(logrus.Fields{
			"action": cmd.Action.String(),
			"kind":   cmd.Kind.String(),
			"number": cmd.Number,
		}).Debug("transaction command detected")
		env = c.executor.Execute(ctx, cmd, input, chatID)
	} else {
		entries, err := c.history.Load(ctx)
		if err != nil {
			log.WithError(err).Warn("failed to load chat history, continuing without it")
			entries = nil
		}
		env = c.pipeline.Run(ctx, input, chatID, entries)
	}

	c.record(ctx, log, env)
	return env
}

// record appends the answer to the history. The append is detached from ctx
// cancellation and bounded by historyWriteTimeout instead.
func (c *Chatbot) record(ctx context.Context, log *logrus.Entry, env models.Envelope) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()

	if err := c.history.Append(ctx, env.HistoryEntry()); err != nil {
		log.WithError(err).Error("failed to append chat history")
	}
}
