package catalog

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"algorace/internal/domain/model"
)

// Loader parses the versioned problem seed file and caches the entries. The
// database stays the source of truth at runtime; the loader only feeds the
// startup sync.
type Loader struct {
	mu       sync.RWMutex
	problems map[string]*model.Problem // keyed by slug
}

type catalogFile struct {
	Problems []problemEntry `yaml:"problems"`
}

type problemEntry struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	URL        string   `yaml:"url"`
	DatePosted string   `yaml:"date_posted"`
	PostedBy   string   `yaml:"posted_by"`
	Difficulty string   `yaml:"difficulty"`
	Tags       []string `yaml:"tags"`
}

func NewLoader() *Loader {
	return &Loader{problems: make(map[string]*model.Problem)}
}

// LoadFromFile loads problem entries from a YAML seed file.
func (l *Loader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	loaded := 0
	for _, entry := range file.Problems {
		problem, err := entry.toProblem()
		if err != nil {
			log.Printf("WARN: skipping catalog entry %q: %v", entry.Name, err)
			continue
		}

		l.mu.Lock()
		l.problems[problem.Slug] = problem
		l.mu.Unlock()
		loaded++
	}

	log.Printf("Catalog loaded from %s: %d problems", path, loaded)
	return nil
}

func (e problemEntry) toProblem() (*model.Problem, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if e.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if _, err := time.Parse(model.DateOnly, e.DatePosted); err != nil {
		return nil, fmt.Errorf("invalid date_posted %q: %w", e.DatePosted, err)
	}

	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}

	return &model.Problem{
		ID:         id,
		Slug:       slug.Make(e.Name),
		Name:       e.Name,
		URL:        e.URL,
		DatePosted: e.DatePosted,
		PostedBy:   e.PostedBy,
		Difficulty: model.ProblemDifficulty(e.Difficulty),
		Tags:       e.Tags,
	}, nil
}

// Get retrieves a cached entry by slug.
func (l *Loader) Get(slug string) *model.Problem {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.problems[slug]
}

// List returns all cached entries ordered by post date, oldest first.
func (l *Loader) List() []*model.Problem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*model.Problem, 0, len(l.problems))
	for _, p := range l.problems {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DatePosted == result[j].DatePosted {
			return result[i].Slug < result[j].Slug
		}
		return result[i].DatePosted < result[j].DatePosted
	})
	return result
}
