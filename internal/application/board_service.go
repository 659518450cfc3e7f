package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-clean-architecture/internal/apperr"
	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
	"github.com/oksasatya/go-blog-clean-architecture/internal/uow"
	"github.com/oksasatya/go-blog-clean-architecture/pkg/helpers"
)

// BoardTable is the persistence surface the board flows need.
type BoardTable interface {
	uow.Backend[int64, entity.Board]
	SelectAll(ctx context.Context) ([]*entity.Board, error)
}

// BoardService orchestrates the board CRUD with ownership-gated mutation.
// ES and GCS are optional collaborators: search indexing is best effort and
// image upload fails with a plain error when no bucket is configured.
type BoardService struct {
	Boards       BoardTable
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESBoardIndex string
	GCS          *storage.Client
	GCSBucket    string
}

func NewBoardService(boards BoardTable, logger *logrus.Logger, es *elasticsearch.Client, esBoardIndex string, gcs *storage.Client, gcsBucket string) *BoardService {
	return &BoardService{
		Boards:       boards,
		Logger:       logger,
		ES:           es,
		ESBoardIndex: esBoardIndex,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
	}
}

type CreateBoardInput struct {
	Title   string
	Content string
}

type UpdateBoardInput struct {
	Title   string
	Content string
}

// List returns all boards, newest first.
func (s *BoardService) List(ctx context.Context) ([]*entity.Board, error) {
	return s.Boards.SelectAll(ctx)
}

func (s *BoardService) Get(ctx context.Context, id int64) (*entity.Board, error) {
	boards := uow.NewStore[int64, entity.Board](s.Boards)
	b, ok, err := boards.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return b, nil
}

// Create persists a new board owned by ownerID.
func (s *BoardService) Create(ctx context.Context, ownerID int64, in CreateBoardInput) (*entity.Board, error) {
	b := &entity.Board{Title: in.Title, Content: in.Content, OwnerID: ownerID}
	boards := uow.NewStore[int64, entity.Board](s.Boards)
	if err := boards.Insert(ctx, b); err != nil {
		return nil, err
	}
	_ = s.indexBoard(ctx, b)
	return b, nil
}

// Update mutates title and content of a board the requester owns. Existence
// is resolved first (missing board → ErrNotFound), then the ownership guard
// (→ ErrForbidden); only then are fields written. The flush touches only the
// columns that actually changed, so an update carrying identical values
// issues no statement at all.
func (s *BoardService) Update(ctx context.Context, requesterID, id int64, in UpdateBoardInput) (*entity.Board, error) {
	boards := uow.NewStore[int64, entity.Board](s.Boards)
	b, ok, err := boards.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if !b.IsOwner(requesterID) {
		return nil, apperr.ErrForbidden
	}

	b.Title = in.Title
	b.Content = in.Content
	if err := boards.Flush(ctx); err != nil {
		return nil, err
	}

	_ = s.indexBoard(ctx, b)
	return b, nil
}

// Delete removes a board the requester owns. Same ordering as Update:
// existence, then guard, then the delete itself.
func (s *BoardService) Delete(ctx context.Context, requesterID, id int64) error {
	boards := uow.NewStore[int64, entity.Board](s.Boards)
	b, ok, err := boards.Load(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	if !b.IsOwner(requesterID) {
		return apperr.ErrForbidden
	}
	if err := boards.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteBoardIndex(ctx, id)
	return nil
}

// UploadImage stores an image for a board in GCS and returns its public URL.
// Owner-gated like every other mutation; nothing is persisted on the row, the
// client embeds the returned URL in the content.
func (s *BoardService) UploadImage(ctx context.Context, requesterID, id int64, r io.Reader, filename, contentType string) (string, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !b.IsOwner(requesterID) {
		return "", apperr.ErrForbidden
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("boards", strconv.FormatInt(id, 10), uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

func (s *BoardService) indexBoard(ctx context.Context, b *entity.Board) error {
	if s.ES == nil || s.ESBoardIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         b.ID,
		"title":      b.Title,
		"content":    b.Content,
		"owner_id":   b.OwnerID,
		"created_at": b.CreatedAt.Format(time.RFC3339Nano),
	}
	body, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESBoardIndex,
		DocumentID: strconv.FormatInt(b.ID, 10),
		Body:       strings.NewReader(string(body)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("board_id", b.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("board_id", b.ID).Warn("es index response error")
	}
	return nil
}

func (s *BoardService) deleteBoardIndex(ctx context.Context, id int64) {
	if s.ES == nil || s.ESBoardIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESBoardIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("board_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over title and content.
func (s *BoardService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if strings.TrimSpace(q) == "" {
		return nil, apperr.ErrValidation
	}
	if s.ES == nil || s.ESBoardIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content"},
			},
		},
		"size": size,
		"sort": []map[string]any{{"id": map[string]any{"order": "desc"}}},
	}
	body, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESBoardIndex),
		s.ES.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
