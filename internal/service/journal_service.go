package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/config"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/nlp"
	"github.com/mira/mood-journal-website/internal/repository"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JournalService owns entry CRUD and the per-entry NLP analysis. Analysis
// failures degrade to neutral sentiment; they never block a write.
type JournalService struct {
	entryRepo      repository.EntryRepository
	attachmentRepo repository.AttachmentRepository
	analyzer       *nlp.Analyzer
	cfg            *config.Config
	now            func() time.Time
}

func NewJournalService(repos *repository.Repositories, analyzer *nlp.Analyzer, cfg *config.Config) *JournalService {
	return &JournalService{
		entryRepo:      repos.Entry,
		attachmentRepo: repos.Attachment,
		analyzer:       analyzer,
		cfg:            cfg,
		now:            time.Now,
	}
}

type EntryInput struct {
	Content string
	Mood    string
}

func (s *JournalService) Create(ctx context.Context, userID uuid.UUID, input EntryInput) (*domain.Entry, error) {
	if input.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if input.Mood == "" {
		return nil, fmt.Errorf("%w: mood is required", ErrInvalidInput)
	}

	now := s.now()
	entry := &domain.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Content:   input.Content,
		Mood:      input.Mood,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.analyze(ctx, entry)

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) Update(ctx context.Context, userID, entryID uuid.UUID, input EntryInput) (*domain.Entry, error) {
	if input.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	entry, err := s.Get(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	entry.Content = input.Content
	if input.Mood != "" {
		entry.Mood = input.Mood
	}
	entry.UpdatedAt = s.now()
	s.analyze(ctx, entry)

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) Get(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.entryRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *JournalService) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, entryID); err != nil {
		return err
	}
	return s.entryRepo.Delete(ctx, entryID, userID)
}

func (s *JournalService) Search(ctx context.Context, userID uuid.UUID, query string) ([]*domain.Entry, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	return s.entryRepo.Search(ctx, userID, query, 50)
}

// SimilarEntry is one related-entry hit ranked by keyword overlap.
type SimilarEntry struct {
	ID         uuid.UUID `json:"id"`
	Similarity float64   `json:"similarity"`
	Preview    string    `json:"preview"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Similar ranks the user's other entries by keyword Jaccard similarity to the
// given entry, keeping hits above 0.2, best five.
func (s *JournalService) Similar(ctx context.Context, userID, entryID uuid.UUID) ([]SimilarEntry, error) {
	target, err := s.Get(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	targetKeywords := decodeKeywords(target.Keywords)
	if len(targetKeywords) == 0 {
		return nil, nil
	}

	entries, err := s.entryRepo.ListByUser(ctx, userID, 200, 0)
	if err != nil {
		return nil, err
	}

	var results []SimilarEntry
	for _, entry := range entries {
		if entry.ID == entryID {
			continue
		}
		similarity := nlp.Similarity(targetKeywords, decodeKeywords(entry.Keywords))
		if similarity <= 0.2 {
			continue
		}
		results = append(results, SimilarEntry{
			ID:         entry.ID,
			Similarity: similarity,
			Preview:    preview(entry.Content, 100),
			CreatedAt:  entry.CreatedAt,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > 5 {
		results = results[:5]
	}
	return results, nil
}

// SaveAttachment persists an uploaded file under the configured directory and
// records the row. The stored filename is server-assigned.
func (s *JournalService) SaveAttachment(ctx context.Context, userID, entryID uuid.UUID, filename, mime string, size int64, r io.Reader) (*domain.Attachment, error) {
	if size > s.cfg.UploadMaxBytes {
		return nil, domain.ErrAttachmentTooLarge
	}
	if _, err := s.Get(ctx, userID, entryID); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}

	id := uuid.New()
	storedName := id.String() + filepath.Ext(filename)
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, storedName))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(r, s.cfg.UploadMaxBytes+1))
	if err != nil {
		return nil, err
	}
	if written > s.cfg.UploadMaxBytes {
		os.Remove(dst.Name())
		return nil, domain.ErrAttachmentTooLarge
	}

	attachment := &domain.Attachment{
		ID:         id,
		EntryID:    entryID,
		Filename:   filename,
		StoredName: storedName,
		Mime:       mime,
		Size:       written,
		CreatedAt:  s.now(),
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		os.Remove(dst.Name())
		return nil, err
	}
	return attachment, nil
}

func (s *JournalService) Attachments(ctx context.Context, userID, entryID uuid.UUID) ([]*domain.Attachment, error) {
	if _, err := s.Get(ctx, userID, entryID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByEntry(ctx, entryID)
}

func (s *JournalService) analyze(ctx context.Context, entry *domain.Entry) {
	sentiment := s.analyzer.Analyze(ctx, entry.Content)
	entry.SentimentLabel = sentiment.Label
	entry.SentimentScore = int(math.Round(sentiment.NormalizedScore * 100))

	keywords := nlp.ExtractKeywords(entry.Content, 5)
	encoded, err := json.Marshal(keywords)
	if err != nil {
		log.WithError(err).Warn("failed to encode entry keywords")
		encoded = []byte("[]")
	}
	entry.Keywords = datatypes.JSON(encoded)
}

func decodeKeywords(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal(raw, &keywords); err != nil {
		return nil
	}
	return keywords
}

// preview truncates to max runes, never mid-rune, so the result stays valid
// UTF-8 in JSON payloads and model prompts.
func preview(content string, max int) string {
	if utf8.RuneCountInString(content) <= max {
		return content
	}
	return string([]rune(content)[:max]) + "..."
}
