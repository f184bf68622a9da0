package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"hiresight/internal/authz"
	"hiresight/internal/domain/user"
)

// ResumeStore persists an uploaded resume and returns its public URL.
type ResumeStore interface {
	UploadResume(ctx context.Context, filename string, r io.Reader) (string, error)
}

type ResumeFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type ResumeUsecase interface {
	Upload(ctx context.Context, p authz.Principal, f *ResumeFile) (string, error)
}

type Resumes struct {
	users    user.Repository
	store    ResumeStore
	maxBytes int64
	logger   *log.Logger
}

func NewResumeUsecase(users user.Repository, store ResumeStore, maxBytes int64, logger *log.Logger) *Resumes {
	return &Resumes{users: users, store: store, maxBytes: maxBytes, logger: logger}
}

func (u *Resumes) Upload(ctx context.Context, p authz.Principal, f *ResumeFile) (string, error) {
	if err := authz.Require(p, authz.CapUploadResume); err != nil {
		return "", ErrForbidden
	}
	if f == nil || f.Content == nil || f.Size == 0 {
		return "", ErrResumeFileMissing
	}
	if u.maxBytes > 0 && f.Size > u.maxBytes {
		return "", ErrResumeFileTooLarge
	}
	if u.store == nil {
		return "", ErrResumeStoreUnavailable
	}

	url, err := u.store.UploadResume(ctx, strings.TrimSpace(f.Filename), f.Content)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Resume] Upload failed user_id=%s err=%v", p.UserID, err)
		}
		return "", ErrInternal
	}

	if err := u.users.UpdateResume(ctx, p.UserID, url); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", ErrInternal
	}
	return url, nil
}
