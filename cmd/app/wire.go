//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/faq-chatbot/internal/bootstrap"
	"github.com/yanqian/faq-chatbot/internal/domain/auth"
	"github.com/yanqian/faq-chatbot/internal/domain/question"
	"github.com/yanqian/faq-chatbot/internal/domain/resolution"
	"github.com/yanqian/faq-chatbot/internal/domain/schema"
	"github.com/yanqian/faq-chatbot/internal/infra/config"
	httpiface "github.com/yanqian/faq-chatbot/internal/interface/http"
	"github.com/yanqian/faq-chatbot/pkg/logger"
	"github.com/yanqian/faq-chatbot/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewResolutionMetrics,
		provideTokenEstimator,
		provideAuthConfig,
		provideQuestionConfig,
		provideResolutionConfig,
		provideSchemaConfig,
		providePgxPool,
		provideQuestionRepository,
		provideBus,
		provideSearchBackend,
		provideSchemaManager,
		provideAnswerSink,
		provideDatasetSource,
		auth.NewService,
		question.NewService,
		resolution.NewService,
		resolution.NewWorker,
		schema.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
