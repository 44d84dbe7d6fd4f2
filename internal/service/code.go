package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	codePrefix   = "LF-"
	codeAttempts = 5
)

func (s *Service) generateCode(ctx context.Context) (string, error) {
	return generateCode(ctx, s.repo.CodeExists)
}

// generateCode draws short random codes until one is free. The unique
// index on checkouts.code backs this up if two callers race on the
// same draw.
func generateCode(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		raw := strings.ReplaceAll(uuid.New().String(), "-", "")
		code := codePrefix + strings.ToUpper(raw[:8])
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.Errorf("no unique checkout code after %d attempts", codeAttempts)
}
