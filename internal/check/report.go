package check

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Summary - итог прогона
type Summary struct {
	RunID    string    `json:"run_id"`
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Finished time.Time `json:"finished"`
	Reports  []Report  `json:"reports"`

	Performance *PerformanceReport `json:"performance,omitempty"`
}

// Summarize считает пройденные и проваленные проверки
func Summarize(reports []Report) Summary {
	s := Summary{RunID: uuid.New().String(), Total: len(reports), Finished: time.Now().UTC(), Reports: reports}
	for _, r := range reports {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// OK - все проверки прошли, включая производительность, если она измерялась
func (s Summary) OK() bool {
	if s.Performance != nil && !s.Performance.Passed {
		return false
	}
	return s.Failed == 0
}

// WriteReport сохраняет итог в JSON, создавая каталог при необходимости
func WriteReport(path string, s Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
