package corpus

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/sheetlab/formulatree/ftree"
)

// Record is one corpus line: the formula's original text, its originating
// sheet and cell, and the compiled RPN bytes hex-encoded.
type Record struct {
	Formula string `json:"formula"`
	Sheet   int    `json:"sheet"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	RPN     string `json:"rpn"`
}

// TokenSource turns a record's compiled bytes into a token sequence.
// *biff.Decoder satisfies this.
type TokenSource interface {
	Tokens(rpn []byte, sheet int, origin ftree.Cell) ([]ftree.Token, error)
}

// Stats summarizes one batch run. A failed formula is counted and skipped;
// it never aborts the batch.
type Stats struct {
	Built   int
	Skipped int
}

// Runner drives a batch of corpus records through a builder into a shape
// index.
type Runner struct {
	Builder *ftree.Builder
	Source  TokenSource
	Index   *ShapeIndex
	Log     *zap.Logger
}

// Run reads JSON-lines records until EOF, building and indexing each one.
// Only input-level failures (unreadable stream, undecodable JSON) abort
// the run.
func (r *Runner) Run(in io.Reader) (Stats, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	var stats Stats
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0

	for sc.Scan() {
		lineno++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return stats, fmt.Errorf("corpus line %d: %w", lineno, err)
		}

		root, err := r.build(rec)
		if err != nil {
			stats.Skipped++
			log.Info("skipping formula",
				zap.Int("line", lineno),
				zap.String("formula", rec.Formula),
				zap.Error(err))
			continue
		}

		r.Index.Add(root, rec.Formula)
		stats.Built++
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("corpus line %d: %w", lineno, err)
	}

	return stats, nil
}

func (r *Runner) build(rec Record) (*ftree.Node, error) {
	if err := ftree.ValidateFormulaText(rec.Formula); err != nil {
		return nil, err
	}

	rpn, err := hex.DecodeString(rec.RPN)
	if err != nil {
		return nil, fmt.Errorf("bad rpn encoding: %w", err)
	}

	origin := ftree.Cell{Row: rec.Row, Col: rec.Col}
	tokens, err := r.Source.Tokens(rpn, rec.Sheet, origin)
	if err != nil {
		return nil, err
	}

	root, err := r.Builder.BuildTokens(tokens, rec.Sheet, origin)
	if err != nil {
		return nil, err
	}
	root.SetOrigLen(len(rec.Formula))
	return root, nil
}
