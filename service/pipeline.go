package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"erpchat/ai"
	"erpchat/metrics"
	"erpchat/models"
	"erpchat/validation"
)

const (
	// ApologyText is returned when no query could be generated and executed.
	ApologyText = "Sorry can you rephrase the question? Or Try later?"
	// ExportedText is returned when the result was saved as a file.
	ExportedText = "your results are too long, please check the file"
)

type PipelineConfig struct {
	PreambleFileID  string
	TableIndexID    string
	SummaryRowLimit int
}

// QueryPipeline answers a question by generating SQL with the model, running it and
// either summarising the rows or exporting them.
type QueryPipeline struct {
	llm      TextGenerator
	runner   QueryRunner
	refs     *ReferenceLibrary
	exporter *ResultsExporter
	cfg      PipelineConfig
	logger   *logrus.Entry
	now      func() time.Time
}

func NewQueryPipeline(llm TextGenerator, runner QueryRunner, refs *ReferenceLibrary, exporter *ResultsExporter, cfg PipelineConfig, logger *logrus.Entry) *QueryPipeline {
	return &QueryPipeline{
		llm:      llm,
		runner:   runner,
		refs:     refs,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run answers input. history is the full conversation log; only entries of chatID
// are sent to the model.
func (p *QueryPipeline) Run(ctx context.Context, input, chatID string, history []models.ChatMessage) (env models.Envelope) {
	log := p.logger.WithField("chat_id", chatID)

	env = models.Envelope{
		ChatMessage: models.ChatMessage{
			UserRequest: input,
			ChatID:      chatID,
		},
	}
	defer func() { env.Timestamp = models.Timestamp(p.now()) }()

	preamble := p.buildPreamble(ctx, log)
	tables := p.identifyTables(ctx, log, input)
	tableDocs := p.refs.TableDocs(ctx, tables)
	turns := ai.HistoryMessages(history, chatID)

	query, err := p.generateSQL(ctx, preamble, tableDocs, turns, input, "")
	if err != nil {
		return p.fail(log, &env, err)
	}
	env.SQLQuery = query

	result, err := p.runner.Run(ctx, query)
	if err != nil {
		log.WithError(err).WithField("sql", query).Warn("query failed, regenerating")

		query, err = p.generateSQL(ctx, preamble, tableDocs, turns, input, ai.BuildRetrySuffix(err.Error()))
		if err != nil {
			return p.fail(log, &env, err)
		}
		env.SQLQuery = query

		result, err = p.runner.Run(ctx, query)
		if err != nil {
			return p.fail(log.WithField("sql", query), &env, err)
		}
	}

	log = log.WithField("rows", result.Len())
	if result.Len() > p.cfg.SummaryRowLimit {
		id, err := p.exporter.Export(ctx, result)
		if err != nil {
			return p.fail(log, &env, err)
		}
		env.FinalTextResponse = ExportedText
		env.FileName = id
		metrics.RecordPipeline(metrics.PipelineExport)
		log.WithField("file_id", id).Info("query results exported")
		return env
	}

	summary, err := p.summarize(ctx, input, result)
	if err != nil {
		return p.fail(log, &env, err)
	}
	env.FinalTextResponse = summary
	metrics.RecordPipeline(metrics.PipelineSummary)
	log.Info("query results summarised")
	return env
}

func (p *QueryPipeline) fail(log *logrus.Entry, env *models.Envelope, err error) models.Envelope {
	log.WithError(err).Error("query pipeline failed")
	env.FinalTextResponse = ApologyText
	metrics.RecordPipeline(metrics.PipelineFailed)
	return *env
}

func (p *QueryPipeline) buildPreamble(ctx context.Context, log *logrus.Entry) string {
	preamble, err := p.refs.Document(ctx, p.cfg.PreambleFileID)
	if err != nil {
		log.WithError(err).Error("failed to load preamble")
		return ""
	}
	return preamble
}

func (p *QueryPipeline) identifyTables(ctx context.Context, log *logrus.Entry, input string) []string {
	index, err := p.refs.Document(ctx, p.cfg.TableIndexID)
	if err != nil {
		log.WithError(err).Error("failed to load table index")
		return []string{}
	}

	response, err := p.llm.Generate(ctx, ai.PurposeTables, ai.BuildTableSelectionMessages(index, input))
	if err != nil {
		log.WithError(err).Error("failed to identify tables")
		return []string{}
	}

	tables := validation.SanitizeTableNames(ai.ParseTableNames(response))
	log.WithField("tables", tables).Debug("candidate tables")
	return tables
}

func (p *QueryPipeline) generateSQL(ctx context.Context, preamble, tableDocs string, turns []ai.Message, input, suffix string) (string, error) {
	messages := ai.BuildSQLMessages(preamble, tableDocs, turns, input, suffix)
	response, err := p.llm.Generate(ctx, ai.PurposeSQL, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate SQL: %w", err)
	}
	return ai.ExtractSelectStatement(response), nil
}

func (p *QueryPipeline) summarize(ctx context.Context, input string, result *models.QueryResult) (string, error) {
	data, err := result.RecordsJSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode query results: %w", err)
	}

	prompt := ai.BuildSummaryPrompt(input, string(data))
	response, err := p.llm.Generate(ctx, ai.PurposeSummary, []ai.Message{{Role: ai.RoleUser, Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("failed to summarise results: %w", err)
	}
	return ai.StripCodeFences(response), nil
}
