package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/votelens/votelens/internal/model"
)

// StatementMapper maps one free-text statement onto policy terms.
// Satisfied by both mapping strategies.
type StatementMapper interface {
	MapStatement(statement string) ([]model.MatchResult, error)
}

// MapJob maps a single statement
type MapJob struct {
	Statement string
	Mapper    StatementMapper
}

// Execute executes the mapping job
func (j *MapJob) Execute(ctx context.Context) Result {
	matches, err := j.Mapper.MapStatement(j.Statement)
	return &MapResult{
		Statement: j.Statement,
		Matches:   matches,
		Error:     err,
	}
}

// MapResult represents the result of a mapping job
type MapResult struct {
	Statement string
	Matches   []model.MatchResult
	Error     error
}

// GetError returns the error from the mapping result
func (r *MapResult) GetError() error {
	return r.Error
}

// BatchProcessor maps many statements concurrently
type BatchProcessor struct {
	mapper      StatementMapper
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(mapper StatementMapper, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		mapper:      mapper,
		concurrency: concurrency,
	}
}

// ProcessStatements maps multiple statements concurrently
func (b *BatchProcessor) ProcessStatements(ctx context.Context, statements []string) []*MapResult {
	if len(statements) == 0 {
		return []*MapResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, statement := range statements {
		pool.Submit(&MapJob{
			Statement: statement,
			Mapper:    b.mapper,
		})
	}

	results := pool.Wait()

	mapResults := make([]*MapResult, len(results))
	for i, result := range results {
		mapResults[i] = result.(*MapResult)
	}

	return mapResults
}

// ProcessFile reads statements from a file and maps them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*MapResult, error) {
	statements, err := ReadStatementsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read statements: %w", err)
	}

	return b.ProcessStatements(ctx, statements), nil
}

// ReadStatementsFromFile reads statements from a file (one per line),
// skipping blanks, comments, and duplicates
func ReadStatementsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var statements []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			statements = append(statements, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return statements, nil
}
