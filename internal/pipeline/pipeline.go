// Package pipeline wires sources, normalization and rendering together.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"pbextract/internal/api"
	"pbextract/internal/db"
	_ "pbextract/internal/db/extractors"
	"pbextract/internal/logger"
	"pbextract/internal/render"
	"pbextract/internal/schema"
	"pbextract/internal/translate"
	"pbextract/pkg/config"
)

// FromFile normalizes the collections of a PocketBase data file. System
// collections are included.
func FromFile(ctx context.Context, path string) ([]schema.Collection, error) {
	rows, err := db.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return translate.Normalize(rows)
}

// FromAPI normalizes the non-system collections of a running server.
func FromAPI(ctx context.Context, url string, creds config.Credentials, opts ...api.Option) ([]schema.Collection, error) {
	rows, err := api.ReadCollections(ctx, url, creds.User, creds.Password, opts...)
	if err != nil {
		return nil, err
	}
	return translate.Normalize(rows)
}

// FromSQL normalizes the collections table of any registered dialect.
func FromSQL(ctx context.Context, driver, dsn string, timeoutSec int) ([]schema.Collection, error) {
	rows, err := db.ConnectAndExtract(ctx, driver, dsn, timeoutSec)
	if err != nil {
		return nil, err
	}
	return translate.Normalize(rows)
}

// Output describes the files to produce.
type Output struct {
	// File receives the declarations.
	File string
	// JSON, when set, receives the collection index.
	JSON          string
	Render        render.Options
	ExcludeSystem bool
}

func (o Output) filter(collections []schema.Collection) []schema.Collection {
	if !o.ExcludeSystem {
		return collections
	}
	out := make([]schema.Collection, 0, len(collections))
	for _, c := range collections {
		if !c.IsSystem() {
			out = append(out, c)
		}
	}
	return out
}

// Generate renders the declarations without writing anything.
func Generate(collections []schema.Collection, o Output) ([]byte, error) {
	return render.Render(o.filter(collections), o.Render)
}

// IndexJSON returns the collection index as indented JSON.
func IndexJSON(collections []schema.Collection) ([]byte, error) {
	data, err := json.MarshalIndent(translate.BuildIndex(collections), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return append(data, '\n'), nil
}

// Write renders every requested artifact first and only then writes them,
// so a failure leaves no output behind.
func Write(collections []schema.Collection, o Output) error {
	collections = o.filter(collections)
	dts, err := render.Render(collections, o.Render)
	if err != nil {
		return err
	}
	var index []byte
	if o.JSON != "" {
		if index, err = IndexJSON(collections); err != nil {
			return err
		}
	}

	if err := writeFileAtomic(o.File, dts); err != nil {
		return err
	}
	logger.Info("wrote %d collections to %s", len(collections), o.File)
	if index != nil {
		if err := writeFileAtomic(o.JSON, index); err != nil {
			return err
		}
		logger.Info("wrote collection index to %s", o.JSON)
	}
	return nil
}
