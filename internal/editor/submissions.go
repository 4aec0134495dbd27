package editor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/content"
)

var errSkip = errors.New("editor: nothing to migrate")

// AppendSubmission validates a public contact form and appends it as a new submission.
func (s *Service) AppendSubmission(ctx context.Context, form content.ContactForm) (Result, error) {
	if err := invalid(form.Validate()); err != nil {
		return Result{}, err
	}
	form = form.Trimmed()

	return s.mutate(ctx, "append submission", func(doc *content.Document) (string, error) {
		now := s.now().UTC()
		sub := content.Submission{
			ID:        content.NewID(now),
			Name:      form.Name,
			Email:     form.Email,
			Phone:     form.Phone,
			Message:   form.Message,
			Timestamp: now.Format(time.RFC3339Nano),
			Status:    content.StatusNew,
		}
		doc.Submissions = append(doc.Submissions, sub)
		return sub.ID, nil
	})
}

// MarkSubmissionRead moves a submission to read. Marking a read submission
// again is a no-op that still succeeds.
func (s *Service) MarkSubmissionRead(ctx context.Context, id string) (Result, error) {
	return s.mutate(ctx, "mark submission read", func(doc *content.Document) (string, error) {
		for i := range doc.Submissions {
			if doc.Submissions[i].ID == id {
				doc.Submissions[i].Status = content.StatusRead
				return id, nil
			}
		}
		return id, ErrNotFound
	})
}

// DeleteSubmission removes a submission by id.
func (s *Service) DeleteSubmission(ctx context.Context, id string) (Result, error) {
	return s.mutate(ctx, "delete submission", func(doc *content.Document) (string, error) {
		for i := range doc.Submissions {
			if doc.Submissions[i].ID == id {
				doc.Submissions = append(doc.Submissions[:i], doc.Submissions[i+1:]...)
				return id, nil
			}
		}
		return id, ErrNotFound
	})
}

// MigrateLegacySubmissions copies submissions from the legacy local slot into
// the document, but only while the document has none. Missing or repeated ids
// are replaced with fresh ones. The legacy slot is cleared after a successful
// copy. It returns the number of migrated entries.
func (s *Service) MigrateLegacySubmissions(ctx context.Context) (int, error) {
	fallback := s.store.Fallback()
	legacy, err := fallback.LegacySubmissions(ctx)
	if err != nil {
		return 0, err
	}
	if len(legacy) == 0 {
		return 0, nil
	}

	migrated := 0
	_, err = s.mutate(ctx, "migrate submissions", func(doc *content.Document) (string, error) {
		if len(doc.Submissions) > 0 {
			return "", errSkip
		}
		seen := make(map[string]struct{}, len(legacy))
		for _, sub := range legacy {
			if _, dup := seen[sub.ID]; dup || sub.ID == "" {
				sub.ID = content.NewID(s.now())
			}
			seen[sub.ID] = struct{}{}
			doc.Submissions = append(doc.Submissions, sub)
		}
		doc.Normalize()
		migrated = len(legacy)
		return "", nil
	})
	if errors.Is(err, errSkip) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if err := fallback.ClearLegacySubmissions(ctx); err != nil {
		s.logger.Warn("legacy submissions migrated but slot not cleared", zap.Error(err))
	}
	s.logger.Info("migrated legacy submissions", zap.Int("count", migrated))
	return migrated, nil
}
