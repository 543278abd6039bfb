package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service runs the load, assemble and write pipeline.
type Service struct {
	source LessonSource
	writer PackageWriter
	logger *slog.Logger

	mu        sync.RWMutex
	lastBuild *BuildResult
}

// NewService creates a new Service. writer may be nil for check-only use.
func NewService(source LessonSource, writer PackageWriter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{source: source, writer: writer, logger: logger}
}

// BuildRequest describes one package build.
type BuildRequest struct {
	Header  string
	Variant Variant
	Output  string

	// Logger overrides the service logger for this build (e.g. to tee into a run log).
	Logger *slog.Logger
}

// BuildResult summarizes a completed build.
type BuildResult struct {
	Output   string    `json:"output"`
	Lessons  int       `json:"lessons"`
	Summary  Summary   `json:"summary"`
	Finished time.Time `json:"finished"`
}

// Check loads and validates every lesson without producing output.
func (s *Service) Check(ctx context.Context) ([]LessonRecord, error) {
	if s.source == nil {
		return nil, errors.New("no lesson source configured")
	}
	lessons, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	return lessons, nil
}

// Assemble loads lessons and assembles them into decks without writing.
func (s *Service) Assemble(ctx context.Context, header string, variant Variant) ([]Deck, error) {
	if header == "" {
		return nil, errors.New("deck header cannot be empty")
	}
	lessons, err := s.Check(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	decks, err := NewAssembler(header, variant, s.logger).Assemble(lessons)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	return decks, nil
}

// Build loads, assembles and hands the decks to the package writer.
// Either the whole package is written or nothing is.
func (s *Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	if s.writer == nil {
		return BuildResult{}, errors.New("no package writer configured")
	}
	if req.Output == "" {
		return BuildResult{}, errors.New("output path cannot be empty")
	}
	logger := req.Logger
	if logger == nil {
		logger = s.logger
	}

	lessons, err := s.Check(ctx)
	if err != nil {
		return BuildResult{}, err
	}
	if req.Header == "" {
		return BuildResult{}, errors.New("deck header cannot be empty")
	}
	decks, err := NewAssembler(req.Header, req.Variant, logger).Assemble(lessons)
	if err != nil {
		return BuildResult{}, fmt.Errorf("assemble: %w", err)
	}
	if len(decks) == 0 {
		return BuildResult{}, ErrNothingToAssemble
	}

	if err := s.writer.Write(ctx, req.Output, decks); err != nil {
		return BuildResult{}, fmt.Errorf("write package: %w", err)
	}

	res := BuildResult{
		Output:   req.Output,
		Lessons:  len(lessons),
		Summary:  Summarize(decks),
		Finished: time.Now(),
	}
	logger.Info("written", "path", req.Output, "decks", res.Summary.Decks, "notes", res.Summary.Notes)

	s.mu.Lock()
	s.lastBuild = &res
	s.mu.Unlock()

	return res, nil
}

// Watch observes lesson changes if the source supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.source.(Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}
