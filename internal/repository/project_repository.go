package repository

import (
	"context"

	"projectbazaar/internal/domain/model"
)

// カタログ参照。コアはprice/isPublished/titleを読むだけで書き込まない。
type ProjectRepository interface {
	FindByID(ctx context.Context, projectID int64) (model.Project, error)
}
