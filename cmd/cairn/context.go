package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cairn/internal/batch"
	"cairn/internal/catalog"
	"cairn/internal/config"
	"cairn/internal/hashing"
	"cairn/internal/hashstore"
	"cairn/internal/identity"
	"cairn/internal/logging"
	"cairn/internal/validation"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// services bundles the wired application components for one command run.
type services struct {
	cfg        *config.Config
	logger     *slog.Logger
	catalog    *catalog.Store
	hashes     *hashstore.Store
	engine     *validation.Engine
	identifier *identity.Identifier
	batches    *batch.Validator
	algorithm  hashing.Algorithm
}

// withServices opens the catalog and wires the component graph for the
// duration of fn, closing the catalog afterward.
func (c *commandContext) withServices(fn func(*services) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	logger = logger.With(logging.String(logging.FieldSessionID, uuid.NewString()))

	cat, err := catalog.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer cat.Close()

	algorithm, err := hashing.ParseAlgorithm(cfg.Hashing.DefaultAlgorithm)
	if err != nil {
		algorithm = hashing.DefaultAlgorithm
	}

	hasher := hashing.NewFileHasher()
	engine := validation.NewEngine(cfg, logger)
	svc := &services{
		cfg:        cfg,
		logger:     logger,
		catalog:    cat,
		hashes:     hashstore.New(cat, hasher, logger),
		engine:     engine,
		identifier: identity.NewIdentifier(cat, hasher, engine, cfg, logger),
		batches:    batch.NewValidator(cfg, logger),
		algorithm:  algorithm,
	}
	return fn(svc)
}

// resolveAlgorithm applies an optional per-command override to the
// configured default.
func (s *services) resolveAlgorithm(override string) (hashing.Algorithm, error) {
	override = strings.TrimSpace(override)
	if override == "" {
		return s.algorithm, nil
	}
	return hashing.ParseAlgorithm(override)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
