package lexent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/siherrmann/lexent/core/canonical"
	"github.com/siherrmann/lexent/core/layout"
	"github.com/siherrmann/lexent/core/oracle"
	"github.com/siherrmann/lexent/core/pdfwords"
	"github.com/siherrmann/lexent/core/pipeline"
	"github.com/siherrmann/lexent/core/registry"
	"github.com/siherrmann/lexent/database"
	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
	loadSql "github.com/siherrmann/lexent/sql"
	"golang.org/x/sync/errgroup"
)

// Lexent wires extraction, canonicalization and persistence of entity registries
type Lexent struct {
	Pipeline *pipeline.Pipeline
	Layout   *layout.Client
	Resolver *canonical.Resolver // Optional, set with SetOracle or UseOllama
	// LayoutCacheDir caches layout segments per PDF. Empty disables the cache.
	LayoutCacheDir string

	// Optional persistence, set with ConnectDatabase
	DB        *helper.Database
	Documents *database.DocumentsDBHandler
	Entities  *database.EntitiesDBHandler

	config *helper.Configuration
	redis  *redis.Client

	mu         sync.Mutex
	registries *registry.Collection

	// Logging
	log *slog.Logger
}

// NewLexent creates a Lexent instance extracting with the given extractors.
// Without extractors the rule-based citation and date tagger is used.
func NewLexent(config *helper.Configuration, extractors ...pipeline.EntityExtractor) *Lexent {
	if config == nil {
		config = helper.DefaultConfiguration()
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	var extractor pipeline.EntityExtractor
	switch len(extractors) {
	case 0:
		extractor = pipeline.NewRuleExtractor()
	case 1:
		extractor = extractors[0]
	default:
		extractor = pipeline.MultiExtractor(extractors)
	}

	p := pipeline.NewPipeline(extractor, logger)
	p.TitleCase = config.TitleCase

	return &Lexent{
		Pipeline:   p,
		Layout:     layout.NewClient(config.LayoutURL),
		config:     config,
		registries: registry.NewCollection(),
		log:        logger,
	}
}

// ConnectDatabase connects to Postgres and creates the document and entity handlers
func (l *Lexent) ConnectDatabase(dbConfig *helper.DatabaseConfiguration) error {
	db := helper.NewDatabase("lexent", dbConfig, l.log)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return helper.NewError("create documents handler", err)
	}

	entities, err := database.NewEntitiesDBHandler(db, false)
	if err != nil {
		return helper.NewError("create entities handler", err)
	}

	l.DB = db
	l.Documents = documents
	l.Entities = entities
	return nil
}

// SetOracle sets the oracle used to canonicalize similarity groups
func (l *Lexent) SetOracle(o oracle.Oracle) {
	l.Resolver = canonical.NewResolver(o, l.config.OllamaModel, l.config.OracleTimeout, l.log)
}

// UseOllama sets an Ollama oracle from the configuration. Answers are cached
// in redis when a redis address is configured.
func (l *Lexent) UseOllama() {
	var o oracle.Oracle = oracle.NewOllama(l.config.OllamaHost, l.config.OllamaModel)
	if l.config.RedisAddr != "" {
		l.redis = redis.NewClient(&redis.Options{
			Addr:     l.config.RedisAddr,
			Password: l.config.RedisPassword,
			DB:       l.config.RedisDB,
		})
		o = oracle.NewCachedOracle(o, l.redis, l.config.CacheTTL, l.log)
	}
	l.SetOracle(o)
}

// Registry returns the registry of a label
func (l *Lexent) Registry(label string) *registry.Registry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registries.Registry(label)
}

// Labels returns the labels with a registry
func (l *Lexent) Labels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registries.Labels()
}

// ProcessDocument analyzes the layout of a PDF, extracts its entities and adds
// the mentions to the registries. The document row is stored if a database is connected.
func (l *Lexent) ProcessDocument(ctx context.Context, pdfPath string) (*pipeline.Result, error) {
	result, collection, err := l.processDocument(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.registries.MergeFrom(collection)
	l.mu.Unlock()

	return result, nil
}

// ProcessDocuments processes PDFs in parallel, bounded by the configured
// number of workers. A failing document does not stop the others: its result
// is nil and its error is joined into the returned error. Mentions of the
// successful documents are added in the order of pdfPaths.
func (l *Lexent) ProcessDocuments(ctx context.Context, pdfPaths []string) ([]*pipeline.Result, error) {
	results := make([]*pipeline.Result, len(pdfPaths))
	collections := make([]*registry.Collection, len(pdfPaths))
	errs := make([]error, len(pdfPaths))

	var g errgroup.Group
	g.SetLimit(max(l.config.Workers, 1))
	for i, pdfPath := range pdfPaths {
		g.Go(func() error {
			result, collection, err := l.processDocument(ctx, pdfPath)
			if err != nil {
				l.log.Warn("Document failed", slog.String("path", pdfPath), slog.String("error", err.Error()))
				errs[i] = helper.NewError(pdfPath, err)
				return nil
			}
			results[i] = result
			collections[i] = collection
			return nil
		})
	}
	_ = g.Wait()

	l.mu.Lock()
	for _, collection := range collections {
		if collection != nil {
			l.registries.MergeFrom(collection)
		}
	}
	l.mu.Unlock()

	return results, errors.Join(errs...)
}

func (l *Lexent) processDocument(ctx context.Context, pdfPath string) (*pipeline.Result, *registry.Collection, error) {
	doc, err := model.NewDocumentFromFile(pdfPath, model.Metadata{})
	if err != nil {
		return nil, nil, helper.NewError("open document", err)
	}

	if l.LayoutCacheDir != "" {
		doc.Segments, err = l.Layout.LoadOrAnalyze(ctx, pdfPath, l.LayoutCacheDir)
	} else {
		doc.Segments, err = l.Layout.Analyze(ctx, pdfPath)
	}
	if err != nil {
		return nil, nil, helper.NewError("analyze layout", err)
	}

	// Without word boxes mentions are still registered, only geometry is skipped.
	doc.WordBoxes, doc.PageCount, err = pdfwords.Extract(pdfPath)
	if err != nil {
		l.log.Warn("Word boxes unavailable", slog.String("document", doc.Title), slog.String("error", err.Error()))
		doc.WordBoxes = nil
	}

	collection := registry.NewCollection()
	result, err := l.Pipeline.ProcessDocument(ctx, doc, collection)
	if err != nil {
		return nil, nil, helper.NewError("process document", err)
	}

	l.log.Info("Processed document",
		slog.String("document", doc.Title),
		slog.Int("segments", result.Segments),
		slog.Int("mentions", result.Mentions),
		slog.Int("entity_boxes", len(result.Entities)),
	)

	if l.Documents != nil {
		if err := l.Documents.InsertDocument(doc); err != nil {
			return nil, nil, helper.NewError("insert document", err)
		}
	}

	return result, collection, nil
}

// Canonicalize resolves the similarity groups of every registry and returns
// the distinct names per label.
func (l *Lexent) Canonicalize(ctx context.Context) (map[string][]string, error) {
	if l.Resolver == nil {
		return nil, helper.NewError("canonicalize", fmt.Errorf("oracle not set, use SetOracle() first"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	names := map[string][]string{}
	for _, label := range l.registries.Labels() {
		labelNames, err := l.Resolver.Canonicalize(ctx, l.registries.Registry(label))
		if err != nil {
			return nil, helper.NewError("canonicalize "+label, err)
		}
		names[label] = labelNames
	}
	return names, nil
}

// SaveRegistries writes every registry to dir
func (l *Lexent) SaveRegistries(dir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registries.Save(dir)
}

// LoadRegistries replaces the registries with the ones stored in dir
func (l *Lexent) LoadRegistries(dir string) error {
	collection, err := registry.LoadCollection(dir)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.registries = collection
	l.mu.Unlock()
	return nil
}

// PersistRegistries stores every registry in the database
func (l *Lexent) PersistRegistries(ctx context.Context) error {
	if l.Entities == nil {
		return helper.NewError("persist registries", fmt.Errorf("database not connected, use ConnectDatabase() first"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, label := range l.registries.Labels() {
		if err := l.Entities.SaveRegistry(ctx, l.registries.Registry(label)); err != nil {
			return helper.NewError("save registry "+label, err)
		}
	}
	return nil
}

// RestoreRegistries replaces the registries with the ones stored in the database
func (l *Lexent) RestoreRegistries(ctx context.Context) error {
	if l.Entities == nil {
		return helper.NewError("restore registries", fmt.Errorf("database not connected, use ConnectDatabase() first"))
	}

	labels, err := l.Entities.SelectEntityLabels()
	if err != nil {
		return helper.NewError("select labels", err)
	}

	collection := registry.NewCollection()
	for _, label := range labels {
		reg, err := l.Entities.LoadRegistry(ctx, label)
		if err != nil {
			return helper.NewError("load registry "+label, err)
		}
		collection.Set(reg)
	}

	l.mu.Lock()
	l.registries = collection
	l.mu.Unlock()
	return nil
}

// Close closes the redis and database connections
func (l *Lexent) Close() error {
	if l.redis != nil {
		if err := l.redis.Close(); err != nil {
			return helper.NewError("close redis", err)
		}
	}
	if l.DB != nil && l.DB.Instance != nil {
		return l.DB.Instance.Close()
	}
	return nil
}
