package stdr

import (
	"fmt"

	"stdr-sim/stdrc/pkg/config"
	"stdr-sim/stdrc/pkg/stdr/normalizer"
	"stdr-sim/stdrc/pkg/stdr/parser"
	"stdr-sim/stdrc/pkg/stdr/validator"
)

// FromConfig builds a compiler from cfg. The schema documents it names are
// loaded into reg, which keeps its previous schema if they fail to load; a
// nil reg starts empty. Extra options are applied last and override cfg.
func FromConfig(cfg *config.Config, reg *validator.Registry, opts ...Option) (*Compiler, error) {
	p := parser.NewParser().WithMaxFileSize(cfg.Parser.MaxFileSize)

	resolver := normalizer.NewResolver(cfg.Resolver.SearchPaths...)
	for _, name := range cfg.Resolver.Order {
		st, err := normalizer.ParseStrategy(name)
		if err != nil {
			return nil, fmt.Errorf("resolver.order: %w", err)
		}
		resolver.Order = append(resolver.Order, st)
	}

	if reg == nil {
		reg = validator.NewRegistry()
	}
	if err := reg.Load(p, cfg.Specs.SchemaFile, cfg.Specs.MergeExemptionFile); err != nil {
		return nil, err
	}

	base := []Option{
		WithParser(p),
		WithResolver(resolver),
		WithFilenameTag(cfg.Resolver.FilenameTag),
		WithMaxDepth(cfg.Resolver.MaxDepth),
		WithRegistry(reg),
		WithDefaults(cfg.Normalizer.ApplyDefaults),
	}
	return New(append(base, opts...)...), nil
}
