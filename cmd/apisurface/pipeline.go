package main

import (
	"github.com/apisurface/apisurface/internal/assembler"
	"github.com/apisurface/apisurface/internal/classfile"
	"github.com/apisurface/apisurface/internal/config"
	"github.com/apisurface/apisurface/internal/diagnostic"
	"github.com/apisurface/apisurface/internal/extractor"
	"github.com/apisurface/apisurface/internal/introspect"
	"github.com/apisurface/apisurface/internal/methodpool"
	"github.com/apisurface/apisurface/internal/model"
	"github.com/apisurface/apisurface/internal/simulator"
)

// kindToCategory maps the free-form warning kinds the core packages report
// (spec.md §7's error-kind names, passed as plain strings so the core never
// imports internal/diagnostic) onto this CLI's Category vocabulary.
func kindToCategory(kind string) diagnostic.Category {
	switch kind {
	case "ResolutionError":
		return diagnostic.CategoryResolutionError
	case "DecodeError":
		return diagnostic.CategoryDecodeError
	case "SimulationBudgetExceeded":
		return diagnostic.CategorySimulationBudgetExceeded
	case "IOError":
		return diagnostic.CategoryIOError
	default:
		return diagnostic.CategoryDecodeError
	}
}

// extractOnce opens the class resolver over the given search path and runs
// the extractor, wiring the simulator into the method pool (breaking the
// C4/C5 import cycle per methodpool.Pool.SetInterpreter's doc comment).
// Shared by analyzeOnce (which assembles further) and the dump command
// (which only needs the raw extracted resources).
func extractOnce(projectPaths, classPaths []string, diag *diagnostic.Collector) (*classfile.Resolver, []*model.Resources, error) {
	resolver, err := classfile.Open(projectPaths, classPaths, classfile.WithResolutionErrorSink(func(fqcn string, resErr error) {
		diag.Warn(diagnostic.CategoryResolutionError, fqcn, 0, resErr.Error())
	}))
	if err != nil {
		return nil, nil, err
	}

	pool := methodpool.New()
	sim := simulator.New(resolver, pool, nil, func(kind, message string) {
		diag.Warn(kindToCategory(kind), "", 0, message)
	})
	pool.SetInterpreter(sim)

	ext := extractor.New(resolver, sim, func(kind, message string) {
		diag.Warn(kindToCategory(kind), "", 0, message)
	})
	return resolver, ext.Extract(), nil
}

// analyzeOnce runs one full analysis pass: extract resources, then assemble
// them with the introspector into a model.Document.
func analyzeOnce(projectPaths, classPaths []string, cfg config.Config, diag *diagnostic.Collector) (*model.Document, *model.TypeRegistry, error) {
	resolver, resources, err := extractOnce(projectPaths, classPaths, diag)
	if err != nil {
		return nil, nil, err
	}
	defer resolver.Close()

	registry := model.NewTypeRegistry()
	intro := introspect.New(resolver)
	asm := assembler.New(intro, registry)
	doc := asm.Assemble(resources, documentMetaFromConfig(cfg))

	return doc, registry, nil
}

// documentMetaFromConfig builds the assembler.DocumentMeta the config layer
// supplies (spec.md §6's Configuration fields have no other source).
func documentMetaFromConfig(cfg config.Config) assembler.DocumentMeta {
	return assembler.DocumentMeta{
		ProjectName:    cfg.ProjectName,
		ProjectVersion: cfg.ProjectVersion,
		Domain:         cfg.Domain,
	}
}
