package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/barcut/internal/model"
	"gopkg.in/yaml.v3"
)

// isYAML reports whether the path should be read and written as YAML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SaveJob writes a job to disk. Files ending in .yaml or .yml are written as
// YAML, everything else as indented JSON.
func SaveJob(path string, job model.Job) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(job)
	} else {
		data, err = json.MarshalIndent(job, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return writeFileAtomic(path, data)
}

// LoadJob reads a job saved by SaveJob.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, err
	}
	var job model.Job
	if isYAML(path) {
		err = yaml.Unmarshal(data, &job)
	} else {
		err = json.Unmarshal(data, &job)
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to parse job %s: %w", filepath.Base(path), err)
	}
	if job.Requests == nil {
		job.Requests = []model.PieceRequest{}
	}
	return job, nil
}
