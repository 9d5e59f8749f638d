package di

import (
	"fmt"

	"island-npc-engine/backend/ai"
	charsvc "island-npc-engine/backend/character/service"
	convsvc "island-npc-engine/backend/conversation/service"
	"island-npc-engine/backend/pkg/cache"
	"island-npc-engine/backend/pkg/config"
	"island-npc-engine/backend/pkg/logger"
	"island-npc-engine/backend/shared/observability"
	"island-npc-engine/backend/world/repository"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB           *gorm.DB
	Logger       *logger.Logger
	Config       *config.Config
	AIService    *ai.Guarded
	Directory    *charsvc.Directory
	Orchestrator *convsvc.Orchestrator
	Saves        repository.SaveRepository
	Profiles     *cache.Cache

	// Metrics is attached by the host after the meter provider is up.
	Metrics *observability.Metrics
}

// New wires the engine together. The database may be nil, in which case
// named save slots are unavailable but everything else works.
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg == nil {
		cfg = config.Get()
	}
	if log == nil {
		log = logger.New(logger.Config{
			Level: cfg.Logging.Level,
			JSON:  cfg.Logging.Format == "json",
		})
	}
	logger.SetGlobal(log)

	// External AI service behind a circuit breaker
	svc, err := ai.NewService(ai.ServiceConfig{
		BaseURL: cfg.AI.ServiceURL,
		APIKey:  cfg.AI.APIKey,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating AI service: %v", err)
	}
	guarded := ai.NewGuarded(svc, log)

	var enricher charsvc.Enricher
	if cfg.AI.Enrich {
		enricher = ai.NewEnricher(guarded)
	}

	directory := charsvc.NewDirectory(charsvc.DirectoryConfig{
		Cap:  cfg.World.PopulationCap,
		Seed: cfg.World.Seed,
	}, enricher, log)

	orchestrator := convsvc.NewOrchestrator(directory, guarded, guarded, nil, log)

	var saves repository.SaveRepository
	if db != nil {
		repo, err := repository.NewGormSaveRepository(db)
		if err != nil {
			return nil, fmt.Errorf("error preparing save storage: %v", err)
		}
		saves = repo
	}

	var profiles *cache.Cache
	if cfg.Cache.Enabled {
		profiles = cache.NewCache()
	}

	return &Container{
		DB:           db,
		Logger:       log,
		Config:       cfg,
		AIService:    guarded,
		Directory:    directory,
		Orchestrator: orchestrator,
		Saves:        saves,
		Profiles:     profiles,
	}, nil
}
