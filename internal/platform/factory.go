package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/deckforge/pkg/adapters/apkg"
	"github.com/aretw0/deckforge/pkg/adapters/fs"
	"github.com/aretw0/deckforge/pkg/core"
)

// DefaultSystemDir is the hidden directory deckforge keeps next to the lessons.
const DefaultSystemDir = fs.DefaultSystemDir

// New wires a Service over the lesson directory at path.
//
//	svc, err := platform.New("./lessons", platform.WithPattern("**/*.txt"))
func New(path string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	src, err := initSource(path, o)
	if err != nil {
		return nil, err
	}

	writer := o.writer
	if writer == nil {
		writer = apkg.NewWriter(apkg.WithClock(o.clock), apkg.WithLogger(o.logger))
	}

	return core.NewService(src, writer, o.logger), nil
}

// Init builds and initializes the lesson source for path.
func Init(path string, opts ...Option) (core.LessonSource, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initSource(path, o)
}

func initSource(path string, o *options) (core.LessonSource, error) {
	if o.source != nil {
		return o.source, nil
	}

	switch o.adapter {
	case "fs":
		src := fs.NewSource(fs.Config{
			Root:         path,
			Pattern:      o.pattern,
			SystemDir:    o.systemDir,
			Exclude:      o.exclude,
			NoNormalize:  !o.normalize,
			Logger:       o.logger,
			ErrorHandler: o.errorHandler,
			Debounce:     o.debounce,
		})
		if err := src.Initialize(context.Background()); err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}
