package config

import (
	"context"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/utils/safe"
)

// Catalog is the program catalog file loaded for index ingestion.
type Catalog struct {
	Programs []ProgramEntry `toml:"program"`
}

// ProgramEntry is one program definition in the catalog
type ProgramEntry struct {
	ID          string   `toml:"id"`
	Category    string   `toml:"category"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Link        string   `toml:"link"`
	Keywords    []string `toml:"keywords"`
	LifeSkills  []string `toml:"life_skills"`
}

// Validate checks if the ProgramEntry is valid
func (p *ProgramEntry) Validate() error {
	if p.ID == "" {
		return goerr.New("program id is required", goerr.V("name", p.Name))
	}
	if p.Name == "" {
		return goerr.New("program name is required", goerr.V("id", p.ID))
	}
	return nil
}

// Model converts the entry into the domain program, lowercasing
// keywords so the filter path matches case-insensitively.
func (p *ProgramEntry) Model() *model.Program {
	keywords := make([]string, 0, len(p.Keywords))
	for _, kw := range p.Keywords {
		keywords = append(keywords, strings.ToLower(kw))
	}

	return &model.Program{
		ID:          p.ID,
		Category:    p.Category,
		Name:        p.Name,
		Description: p.Description,
		Link:        p.Link,
		Keywords:    keywords,
		LifeSkills:  p.LifeSkills,
	}
}

// LoadCatalog reads the catalog from a local path or a gs:// URL.
func LoadCatalog(ctx context.Context, path string) (*Catalog, error) {
	var reader io.ReadCloser

	if bucket, object, ok := strings.Cut(strings.TrimPrefix(path, "gs://"), "/"); ok && strings.HasPrefix(path, "gs://") {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage client")
		}
		defer safe.Close(ctx, client)

		r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open catalog object",
				goerr.V("bucket", bucket),
				goerr.V("object", object),
			)
		}
		reader = r
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open catalog file", goerr.V("path", path))
		}
		reader = f
	}
	defer safe.Close(ctx, reader)

	var catalog Catalog
	if err := toml.NewDecoder(reader).Decode(&catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse catalog", goerr.V("path", path))
	}

	if len(catalog.Programs) == 0 {
		return nil, goerr.New("catalog has no programs", goerr.V("path", path))
	}
	for i := range catalog.Programs {
		if err := catalog.Programs[i].Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid catalog entry")
		}
	}

	return &catalog, nil
}
