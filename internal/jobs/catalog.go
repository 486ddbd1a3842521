package jobs

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed demo_jobs.yaml
var demoJobsYAML []byte

// ErrNotFound is returned when a job id is not in the catalog.
var ErrNotFound = errors.New("job not found")

// Catalog is an immutable, ordered set of jobs.
type Catalog struct {
	jobs []Job
	byID map[string]int
}

type catalogFile struct {
	Jobs []Job `yaml:"jobs"`
}

// NewCatalog validates jobs and builds a Catalog. Ids must be unique and non-empty.
func NewCatalog(jobs []Job) (*Catalog, error) {
	c := &Catalog{
		jobs: make([]Job, 0, len(jobs)),
		byID: make(map[string]int, len(jobs)),
	}
	for i, j := range jobs {
		j.ID = strings.TrimSpace(j.ID)
		if j.ID == "" {
			return nil, fmt.Errorf("job %d: id is required", i)
		}
		if strings.TrimSpace(j.Title) == "" {
			return nil, fmt.Errorf("job %s: title is required", j.ID)
		}
		if _, dup := c.byID[j.ID]; dup {
			return nil, fmt.Errorf("job %s: duplicate id", j.ID)
		}
		c.byID[j.ID] = len(c.jobs)
		c.jobs = append(c.jobs, cloneJob(j))
	}
	return c, nil
}

// ParseCatalog decodes a YAML document with a top-level "jobs" list.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse job catalog: %w", err)
	}
	return NewCatalog(f.Jobs)
}

// LoadCatalog reads a YAML catalog from path, or the built-in demo catalog
// when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DemoCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job catalog: %w", err)
	}
	return ParseCatalog(data)
}

// DemoCatalog returns the built-in demo jobs.
func DemoCatalog() (*Catalog, error) {
	return ParseCatalog(demoJobsYAML)
}

// All returns a copy of every job in catalog order.
func (c *Catalog) All() []Job {
	out := make([]Job, 0, len(c.jobs))
	for _, j := range c.jobs {
		out = append(out, cloneJob(j))
	}
	return out
}

// Get returns the job with id.
func (c *Catalog) Get(id string) (Job, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Job{}, ErrNotFound
	}
	return cloneJob(c.jobs[idx]), nil
}

// Len reports the number of jobs.
func (c *Catalog) Len() int { return len(c.jobs) }

func cloneJob(j Job) Job {
	out := j
	out.Requirements = append([]string(nil), j.Requirements...)
	out.Skills = append([]string(nil), j.Skills...)
	if j.Deadline != nil {
		d := *j.Deadline
		out.Deadline = &d
	}
	return out
}
