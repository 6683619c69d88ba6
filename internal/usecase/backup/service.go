// Package backup streams user progression snapshots to and from NDJSON
// backup files. Each line is a self-describing record; a meta header and a
// trailing checksum record let an import detect truncated or corrupted files
// before touching the store.
package backup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io"
	"time"

	"github.com/eslsoft/parcours/internal/entity"
	"github.com/eslsoft/parcours/internal/repository"
)

const (
	defaultBatchSize = 256
	formatVersion    = 1
)

type ProgressReporter interface {
	Start(total int)
	Increment(delta int)
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(int)     {}
func (noopProgress) Increment(int) {}
func (noopProgress) Finish()       {}

type Service struct {
	repo      repository.ProgressRepository
	batchSize int
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

func NewService(repo repository.ProgressRepository, opts ...Option) *Service {
	s := &Service{repo: repo, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	reporter ProgressReporter
}

func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	replace bool
}

// WithReplace overwrites snapshots that already exist in the store. The
// default keeps existing users untouched and only imports unknown ones.
func WithReplace() ImportOption {
	return func(cfg *importConfig) {
		cfg.replace = true
	}
}

type record struct {
	Type       string          `json:"type"`
	Version    int             `json:"version,omitempty"`
	ExportedAt *time.Time      `json:"exported_at,omitempty"`
	Count      int64           `json:"count,omitempty"`
	Checksum   string          `json:"checksum,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	writer := bufio.NewWriter(w)
	defer writer.Flush()

	first, total, err := s.repo.List(ctx, &repository.ListProgressQuery{
		Pagination: repository.Pagination{PageNo: 1, PageSize: int32(s.batchSize)},
	})
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}

	now := time.Now().UTC()
	meta := record{
		Type:       "meta",
		Version:    formatVersion,
		ExportedAt: &now,
		Count:      total,
	}
	if err := writeRecord(writer, meta); err != nil {
		return err
	}

	reporter.Start(int(total))
	digest := sha256.New()

	var written int64
	page := first
	for pageNo := int32(1); len(page) > 0; pageNo++ {
		for i := range page {
			if err := s.exportSnapshot(writer, digest, &page[i]); err != nil {
				return err
			}
		}
		written += int64(len(page))
		reporter.Increment(len(page))
		if written >= total {
			break
		}
		page, _, err = s.repo.List(ctx, &repository.ListProgressQuery{
			Pagination: repository.Pagination{PageNo: pageNo + 1, PageSize: int32(s.batchSize)},
		})
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}
	}
	reporter.Finish()

	footer := record{
		Type:     "checksum",
		Count:    written,
		Checksum: hex.EncodeToString(digest.Sum(nil)),
	}
	if err := writeRecord(writer, footer); err != nil {
		return err
	}
	return writer.Flush()
}

func (s *Service) exportSnapshot(w io.Writer, digest hash.Hash, snapshot *entity.ProgressSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snapshot.UserID, err)
	}
	digest.Write(payload)
	return writeRecord(w, record{Type: "snapshot", Payload: payload})
}

func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	br := bufio.NewReader(r)
	digest := sha256.New()
	var (
		metaSeen   bool
		footerSeen bool
		meta       record
		imported   int64
	)

	for {
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read backup: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec record
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}

			switch rec.Type {
			case "meta":
				metaSeen = true
				meta = rec
			case "checksum":
				footerSeen = true
				if got := hex.EncodeToString(digest.Sum(nil)); got != rec.Checksum {
					return fmt.Errorf("backup: checksum mismatch, file is corrupted")
				}
				if rec.Count != imported {
					return fmt.Errorf("backup: expected %d snapshots, found %d", rec.Count, imported)
				}
			case "snapshot":
				if footerSeen {
					return errors.New("backup: records after checksum record")
				}
				digest.Write(rec.Payload)
				if err := s.importSnapshot(ctx, rec.Payload, cfg.replace); err != nil {
					return err
				}
				imported++
			default:
				return fmt.Errorf("backup: unknown record type %q", rec.Type)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !metaSeen {
		return errors.New("backup: missing meta record")
	}
	if meta.Version != formatVersion {
		return fmt.Errorf("backup: unsupported format version %d", meta.Version)
	}
	if !footerSeen {
		return errors.New("backup: missing checksum record, file is truncated")
	}
	return nil
}

func (s *Service) importSnapshot(ctx context.Context, payload json.RawMessage, replace bool) error {
	var snapshot entity.ProgressSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.UserID == "" {
		return errors.New("backup: snapshot without user_id")
	}
	snapshot.Normalize()

	existing, err := s.repo.Load(ctx, snapshot.UserID)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", snapshot.UserID, err)
	}
	if existing.Version > 0 && !replace {
		return nil
	}
	snapshot.Version = existing.Version + 1
	if err := s.repo.Save(ctx, &snapshot, existing.Version); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.UserID, err)
	}
	return nil
}

func writeRecord(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if _, err := w.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
