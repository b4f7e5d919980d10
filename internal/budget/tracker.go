// Package budget keeps per-user spending ceilings, mirrored to a JSON file
// on every change.
package budget

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"budgetbot/internal/core"
	"budgetbot/internal/log"

	"github.com/shopspring/decimal"
)

// WarnRatio is the share of the ceiling above which a threshold advisory
// is issued.
var WarnRatio = decimal.RequireFromString("0.8")

// Tracker owns the user -> ceiling mapping. Every mutation rewrites the whole
// file before returning. Persistence failures are logged, not returned:
// budgets are advisory.
type Tracker struct {
	mu       sync.Mutex
	path     string
	ceilings map[string]decimal.Decimal
	logger   *log.Logger
}

// Load reads the budget file at path. A missing or corrupt file yields an
// empty tracker.
func Load(path string, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.Default(log.ComponentBudget)
	}
	t := &Tracker{
		path:     path,
		ceilings: map[string]decimal.Decimal{},
		logger:   logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("Budget file not found, starting empty", "path", path)
		} else {
			logger.Error("Failed to read budget file", "path", path, log.FieldError, err)
		}
		return t
	}

	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Error("Failed to decode budget file, starting empty", "path", path, log.FieldError, err)
		return t
	}
	for user, ceiling := range raw {
		if !ceiling.IsPositive() {
			logger.Warn("Dropping non-positive budget", log.FieldUser, user, log.FieldCeiling, ceiling.String())
			continue
		}
		t.ceilings[user] = ceiling
	}
	logger.Info("Loaded budgets", "path", path, "count", len(t.ceilings))
	return t
}

// Set stores amount as user's ceiling, replacing any previous value.
func (t *Tracker) Set(user string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ceilings[user] = amount
	t.persistLocked()
	return nil
}

// Delete removes user's ceiling and reports whether one existed.
func (t *Tracker) Delete(user string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.ceilings[user]; !ok {
		return false
	}
	delete(t.ceilings, user)
	t.persistLocked()
	return true
}

// Get returns user's ceiling. ok is false when no budget is configured.
func (t *Tracker) Get(user string) (decimal.Decimal, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.ceilings[user]
	return c, ok
}

// EvaluateThreshold returns the ceiling when totalSpent is strictly above
// WarnRatio of it.
func (t *Tracker) EvaluateThreshold(user string, totalSpent decimal.Decimal) (decimal.Decimal, bool) {
	ceiling, ok := t.Get(user)
	if !ok {
		return decimal.Zero, false
	}
	if totalSpent.GreaterThan(ceiling.Mul(WarnRatio)) {
		return ceiling, true
	}
	return decimal.Zero, false
}

// Users returns the users with a configured budget, sorted.
func (t *Tracker) Users() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.ceilings))
	for u := range t.ceilings {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func (t *Tracker) persistLocked() {
	if err := t.writeFile(); err != nil {
		t.logger.Error("Failed to persist budgets", "path", t.path, log.FieldOperation, log.OpPersist, log.FieldError, err)
	}
}

// writeFile rewrites the whole mapping as a JSON object of bare numbers.
func (t *Tracker) writeFile() error {
	out := make(map[string]json.Number, len(t.ceilings))
	for user, c := range t.ceilings {
		out[user] = json.Number(c.String())
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode budgets: %w", err)
	}

	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, ".budgets-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace budget file: %w", err)
	}
	return nil
}
